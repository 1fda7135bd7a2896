package userstore

import (
	"database/sql"
	"embed"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/Brendan777/Assignment2/pkg/domain/model"
)

//go:embed migrations/*.sql
var migrations embed.FS

const mysqlDuplicateEntry = 1062

// MySQLStore is the database-backed user repository, for deployments
// that outgrow the JSON file. It keeps the same contract: records are
// keyed by normalized email and duplicates are refused.
type MySQLStore struct {
	db *sqlx.DB
}

var _ model.UserRepository = &MySQLStore{}

func NewMySQLStore(db *sqlx.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Migrate brings the users schema up to date.
func Migrate(db *sql.DB) error {
	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return errors.Wrap(err, "open migration source")
	}

	driver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		return errors.Wrap(err, "init migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return errors.Wrap(err, "init migrator")
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, "apply migrations")
	}
	return nil
}

func (s *MySQLStore) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (s *MySQLStore) Find(email string) (*model.UserRecord, error) {
	var row struct {
		ID        uuid.UUID    `db:"id"`
		Email     string       `db:"email"`
		Name      string       `db:"name"`
		Password  string       `db:"password"`
		CreatedAt sql.NullTime `db:"created_at"`
	}

	const query = `SELECT id, email, name, password, created_at FROM users WHERE email = ?`
	if err := s.db.Get(&row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, errors.Wrap(err, "select user")
	}

	record := &model.UserRecord{
		ID:       row.ID,
		Email:    row.Email,
		Name:     row.Name,
		Password: row.Password,
	}
	if row.CreatedAt.Valid {
		record.CreatedAt = row.CreatedAt.Time
	}
	return record, nil
}

func (s *MySQLStore) Create(record *model.UserRecord) error {
	const query = `INSERT INTO users (id, email, name, password, created_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.Exec(query, record.ID, record.Email, record.Name, record.Password, record.CreatedAt)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return model.ErrEmailTaken
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}
