package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db    *pgxpool.Pool
	Media MediaRepository
}

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:    db,
		Media: NewMediaRepository(db),
	}
}

func (r *Repository) Close() {
	r.db.Close()
}
