package metadata

import (
	"database/sql"

	_ "github.com/lib/pq"
)

type PostgresWriter struct {
	db *sql.DB
}

func NewPostgresWriter(db *sql.DB) *PostgresWriter {
	return &PostgresWriter{db: db}
}

func (w *PostgresWriter) Record(row *Row) error {
	_, err := w.db.Exec(`
        INSERT INTO saved_media
            (file_unique_id, file_id, chat_id, user_name, file_name, media_type,
             media_group_id, source_kind, source_name, source_id, source_link, saved_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (file_unique_id) DO NOTHING
    `, row.FileUniqueID, row.FileID, row.ChatID, row.UserName, row.FileName,
		row.Kind, row.GroupID, row.Source.Kind, row.Source.Name,
		row.Source.ID, row.Source.Link, row.SavedAt)
	return err
}
