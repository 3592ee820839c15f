package mysql

const insertSyncLogSQL = `
INSERT INTO crm_sync_logs
  (id, entity_type, entity_id, crm_id, action, status, request_data, response_data, error_message, created_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const syncLogColumns = `id, entity_type, entity_id, crm_id, action, status, request_data, response_data, error_message, created_at`

// Newest first; the id tiebreak keeps rows written in the same microsecond stable.
const recentSyncLogsSQL = `
SELECT ` + syncLogColumns + `
FROM crm_sync_logs
ORDER BY created_at DESC, id DESC
LIMIT ?
`

// Served by idx_sync_logs_entity (entity_type, entity_id, created_at).
const entitySyncLogsSQL = `
SELECT ` + syncLogColumns + `
FROM crm_sync_logs
WHERE entity_type = ? AND entity_id = ?
ORDER BY created_at DESC, id DESC
`
