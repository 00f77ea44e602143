package repository

const (
	createOperator = `INSERT INTO operators (username, email, password, role, created_at, updated_at)
						VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), 'operator')::operator_role, now(), now())
						RETURNING *`

	getOperatorByID = `SELECT operator_id, username, email, role, created_at, updated_at
						FROM operators
						WHERE operator_id = $1`

	getOperatorByEmail = `SELECT operator_id, username, password, email, role, created_at, updated_at
						FROM operators WHERE email = $1`
)
