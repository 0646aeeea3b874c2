package mysql

const insertQuoteSQL = `
INSERT INTO quote_requests
  (id, name, email, phone, service, budget_range, project_description, file_name, file_size, status, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const getQuoteSQL = `
SELECT
  id,
  name,
  email,
  phone,
  service,
  budget_range,
  project_description,
  file_name,
  file_size,
  status,
  created_at
FROM quote_requests
WHERE id = ?
`

const updateQuoteStatusSQL = `
UPDATE quote_requests
SET status = ?, updated_at = CURRENT_TIMESTAMP(3)
WHERE id = ?
`
