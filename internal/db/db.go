package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

// Connect initializes the database connection and runs migrations.
func Connect(dsn string) (*sqlx.DB, error) {
	database, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	if err := runMigrations(database); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return database, nil
}

func runMigrations(database *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_rooms (
            id UUID PRIMARY KEY,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );`,
		`CREATE TABLE IF NOT EXISTS chat_members (
            room_id UUID NOT NULL REFERENCES chat_rooms(id) ON DELETE CASCADE,
            user_id TEXT NOT NULL,
            level INT NOT NULL DEFAULT 0,
            PRIMARY KEY(user_id, room_id)
        );`,
		`CREATE TABLE IF NOT EXISTS messages (
            id UUID PRIMARY KEY,
            room_id UUID NOT NULL REFERENCES chat_rooms(id) ON DELETE CASCADE,
            role VARCHAR(20) NOT NULL,
            content TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            annotations JSONB,
            attachments JSONB
        );`,
		`CREATE INDEX IF NOT EXISTS idx_messages_room_created
            ON messages (room_id, created_at);`,
		`CREATE TABLE IF NOT EXISTS parts (
            id UUID PRIMARY KEY,
            message_id UUID NOT NULL REFERENCES messages(id) ON DELETE CASCADE,
            ord INT NOT NULL,
            type VARCHAR(20) NOT NULL,
            UNIQUE(message_id, ord)
        );`,
		`CREATE TABLE IF NOT EXISTS text_parts (
            part_id UUID PRIMARY KEY REFERENCES parts(id) ON DELETE CASCADE,
            text TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS reasoning_parts (
            part_id UUID PRIMARY KEY REFERENCES parts(id) ON DELETE CASCADE,
            reasoning TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS tool_invocation_parts (
            part_id UUID PRIMARY KEY REFERENCES parts(id) ON DELETE CASCADE,
            tool_call_id VARCHAR(255) NOT NULL,
            tool_name VARCHAR(255) NOT NULL,
            state VARCHAR(20) NOT NULL,
            args JSONB NOT NULL,
            result JSONB
        );`,
		`CREATE TABLE IF NOT EXISTS source_parts (
            part_id UUID PRIMARY KEY REFERENCES parts(id) ON DELETE CASCADE,
            source_type VARCHAR(20) NOT NULL,
            source_id VARCHAR(255) NOT NULL,
            url TEXT NOT NULL,
            title TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS step_start_parts (
            part_id UUID PRIMARY KEY REFERENCES parts(id) ON DELETE CASCADE
        );`,
	}

	for _, m := range migrations {
		if _, err := database.Exec(m); err != nil {
			return err
		}
	}
	log.Info().Msg("database migrations applied")
	return nil
}
