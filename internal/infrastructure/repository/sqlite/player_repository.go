package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/midwicket/crickstack/internal/domain/player"
	qb "github.com/midwicket/crickstack/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

type playerTableModel struct {
	Identifier  string         `db:"identifier"`
	Name        sql.NullString `db:"name"`
	UniqueName  sql.NullString `db:"unique_name"`
	KeyCricinfo sql.NullString `db:"key_cricinfo"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		Identifier:  m.Identifier,
		Name:        m.Name.String,
		UniqueName:  m.UniqueName.String,
		KeyCricinfo: m.KeyCricinfo.String,
	}
}

func (r *PlayerRepository) List(ctx context.Context, search string, limit int) ([]player.Player, error) {
	builder := qb.Select("identifier", "name", "unique_name", "key_cricinfo").
		From("gold_dim_players")
	if search != "" {
		builder = builder.Where(qb.Expr("name LIKE ?", "%"+search+"%"))
	}
	if limit <= 0 {
		limit = 50
	}

	query, args, err := builder.OrderBy("name").Limit(limit).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list players query: %w", err)
	}

	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *PlayerRepository) Get(ctx context.Context, identifier string) (player.Player, bool, error) {
	var row playerTableModel
	err := r.db.GetContext(ctx, &row,
		`SELECT identifier, name, unique_name, key_cricinfo FROM gold_dim_players WHERE identifier = $1`,
		identifier)
	if err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("select player: %w", err)
	}
	return row.toDomain(), true, nil
}
