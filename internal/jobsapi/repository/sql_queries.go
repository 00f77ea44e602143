package repository

const (
	createJob = `INSERT INTO jobs (job_id, dataset, name, work_item_size, num_nodes, submitted_by, status, created_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, now())
					RETURNING *`

	getJobByID = `SELECT job_id, dataset, name, work_item_size, num_nodes, submitted_by, status, error, created_at, completed_at
					FROM jobs
					WHERE job_id = $1`

	listJobs = `SELECT job_id, dataset, name, work_item_size, num_nodes, submitted_by, status, error, created_at, completed_at
					FROM jobs
					ORDER BY created_at DESC
					OFFSET $1 LIMIT $2`

	countJobs = `SELECT COUNT(*) FROM jobs`

	updateJobStatus = `UPDATE jobs
						SET status = $1,
						    error = $2,
						    completed_at = CASE WHEN $1 IN ('completed', 'failed') THEN now() ELSE completed_at END
						WHERE job_id = $3`
)
