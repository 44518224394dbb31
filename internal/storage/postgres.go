package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	_ "github.com/lib/pq"
	"github.com/xaenox/notedesk/internal/models"
	"go.uber.org/zap"
)

//go:embed migrations.sql
var migrations embed.FS

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	UseInMemory bool
}

type PostgresGateway struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresGateway(config DatabaseConfig, logger *zap.Logger) (*PostgresGateway, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}

	gw := &PostgresGateway{db: db, logger: logger}

	if err := gw.initializeSchema(); err != nil {
		return nil, fmt.Errorf("error initializing database schema: %w", err)
	}

	return gw, nil
}

func (g *PostgresGateway) initializeSchema() error {
	migrationSQL, err := migrations.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("error reading migrations file: %w", err)
	}

	_, err = g.db.Exec(string(migrationSQL))
	if err != nil {
		return fmt.Errorf("error executing migrations: %w", err)
	}

	return nil
}

func (g *PostgresGateway) List(ctx context.Context, ownerID string) ([]models.NoteListItem, error) {
	query := `
		SELECT id, title, created_at, updated_at
		FROM notes
		WHERE owner_id = $1
		ORDER BY updated_at DESC`

	rows, err := g.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing notes: %w: %v", models.ErrRemoteUnavailable, err)
	}
	defer rows.Close()

	var items []models.NoteListItem
	for rows.Next() {
		var item models.NoteListItem
		err := rows.Scan(&item.ID, &item.Title, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning note: %w: %v", models.ErrRemoteUnavailable, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading notes: %w: %v", models.ErrRemoteUnavailable, err)
	}

	// The query already orders, but the ordering is part of the gateway
	// contract, so sort defensively.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].UpdatedAt.After(items[j].UpdatedAt)
	})

	return items, nil
}

func (g *PostgresGateway) FetchOne(ctx context.Context, id string) (models.Note, error) {
	query := `
		SELECT id, owner_id, title, content, summary, created_at, updated_at
		FROM notes
		WHERE id = $1`

	var note models.Note
	err := g.db.QueryRowContext(ctx, query, id).Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.Summary,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Note{}, fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.Note{}, fmt.Errorf("error fetching note: %w: %v", models.ErrRemoteUnavailable, err)
	}

	return note, nil
}

func (g *PostgresGateway) Insert(ctx context.Context, ownerID string) (models.Note, error) {
	query := `
		INSERT INTO notes (owner_id, title, content, summary)
		VALUES ($1, $2, '', '')
		RETURNING id, owner_id, title, content, summary, created_at, updated_at`

	var note models.Note
	err := g.db.QueryRowContext(ctx, query, ownerID, models.DefaultTitle).Scan(
		&note.ID,
		&note.OwnerID,
		&note.Title,
		&note.Content,
		&note.Summary,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		return models.Note{}, fmt.Errorf("error creating note: %w: %v", models.ErrRemoteUnavailable, err)
	}

	g.logger.Info("Created note",
		zap.String("id", note.ID),
		zap.String("owner_id", ownerID))

	return note, nil
}

func (g *PostgresGateway) UpdateFields(ctx context.Context, id string, update models.NoteUpdate) error {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)

	appendField := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.Title != nil {
		appendField("title", *update.Title)
	}
	if update.Content != nil {
		appendField("content", *update.Content)
	}
	if update.Summary != nil {
		appendField("summary", *update.Summary)
	}
	if update.UpdatedAt != nil {
		appendField("updated_at", *update.UpdatedAt)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE notes SET %s WHERE id = $%d",
		strings.Join(set, ", "), len(args))

	result, err := g.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error updating note: %w: %v", models.ErrRemoteUnavailable, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w: %v", models.ErrRemoteUnavailable, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}

	return nil
}

func (g *PostgresGateway) Delete(ctx context.Context, id string) error {
	result, err := g.db.ExecContext(ctx, "DELETE FROM notes WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting note: %w: %v", models.ErrRemoteUnavailable, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error getting rows affected: %w: %v", models.ErrRemoteUnavailable, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("note %s: %w", id, models.ErrNotFound)
	}

	g.logger.Info("Deleted note", zap.String("id", id))
	return nil
}

func (g *PostgresGateway) Close() error {
	return g.db.Close()
}
