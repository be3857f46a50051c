package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/ponyo877/roomchat/server/domain"
	"github.com/ponyo877/roomchat/server/usecase"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) usecase.Repository {
	return &Repository{db: db}
}

// timestamps are stored in UTC at second precision so that they compare as
// text in sqlite
func stamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func constraintError(err error) (sqlite3.ErrNoExtended, bool) {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return sqliteErr.ExtendedCode, true
	}
	return 0, false
}

func (r *Repository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	query := `INSERT INTO users (username, password_hash, status, last_seen, created_at) VALUES (?, ?, ?, ?, ?)`
	user.LastSeen = stamp(user.LastSeen)
	user.CreatedAt = stamp(user.CreatedAt)
	res, err := r.db.ExecContext(ctx, query, user.Username, user.PasswordHash, string(user.Status), user.LastSeen, user.CreatedAt)
	if err != nil {
		if code, ok := constraintError(err); ok && code == sqlite3.ErrConstraintUnique {
			return domain.User{}, fmt.Errorf("user %q: %w", user.Username, domain.ErrAlreadyExists)
		}
		return domain.User{}, fmt.Errorf("failed to insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to get user id: %w", err)
	}
	user.ID = id
	return user, nil
}

const userColumns = `id, username, password_hash, status, last_seen, created_at`

func scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	var status string
	if err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &status, &user.LastSeen, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, fmt.Errorf("error querying user: %w", err)
	}
	user.Status = domain.Presence(status)
	return user, nil
}

func (r *Repository) GetUser(ctx context.Context, id int64) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *Repository) GetUserByName(ctx context.Context, username string) (domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func (r *Repository) SetPresence(ctx context.Context, userID int64, status domain.Presence, at time.Time) error {
	query := `UPDATE users SET status = ?, last_seen = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(status), stamp(at), userID)
	if err != nil {
		return fmt.Errorf("failed to update presence of user %d: %w", userID, err)
	}
	return expectRow(res, "user", userID)
}

// TouchUser records activity. A user marked offline stays offline.
func (r *Repository) TouchUser(ctx context.Context, userID int64, at time.Time) error {
	query := `UPDATE users SET status = ?, last_seen = ? WHERE id = ? AND status != ?`
	if _, err := r.db.ExecContext(ctx, query, string(domain.PresenceOnline), stamp(at), userID, string(domain.PresenceOffline)); err != nil {
		return fmt.Errorf("failed to touch user %d: %w", userID, err)
	}
	return nil
}

// MarkAway moves online users not seen since idleSince to away and returns
// how many changed.
func (r *Repository) MarkAway(ctx context.Context, idleSince time.Time) (int64, error) {
	query := `UPDATE users SET status = ? WHERE status = ? AND last_seen < ?`
	res, err := r.db.ExecContext(ctx, query, string(domain.PresenceAway), string(domain.PresenceOnline), stamp(idleSince))
	if err != nil {
		return 0, fmt.Errorf("failed to mark idle users away: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count idle users: %w", err)
	}
	return n, nil
}

func (r *Repository) GetRoom(ctx context.Context, id int64) (domain.Room, error) {
	query := `SELECT id, name FROM chat_rooms WHERE id = ?`
	var room domain.Room
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&room.ID, &room.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Room{}, domain.ErrNotFound
		}
		return domain.Room{}, fmt.Errorf("error querying room: %w", err)
	}
	return room, nil
}

func (r *Repository) ListRooms(ctx context.Context) ([]domain.Room, error) {
	return r.queryRooms(ctx, `SELECT id, name FROM chat_rooms ORDER BY id`)
}

func (r *Repository) ListRoomsByUser(ctx context.Context, userID int64) ([]domain.Room, error) {
	query := `
		SELECT c.id, c.name
		FROM chat_rooms c
		JOIN user_chat_room_membership m ON c.id = m.room_id
		WHERE m.user_id = ?
		ORDER BY c.id
	`
	return r.queryRooms(ctx, query, userID)
}

func (r *Repository) queryRooms(ctx context.Context, query string, args ...any) ([]domain.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rooms: %w", err)
	}
	defer rows.Close()

	rooms := []domain.Room{}
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Name); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}
	return rooms, nil
}

// CreateRoom inserts the room and the creator's membership together.
func (r *Repository) CreateRoom(ctx context.Context, name string, creatorID int64) (domain.Room, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Room{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO chat_rooms (name) VALUES (?)`, name)
	if err != nil {
		if code, ok := constraintError(err); ok && code == sqlite3.ErrConstraintUnique {
			return domain.Room{}, fmt.Errorf("room %q: %w", name, domain.ErrAlreadyExists)
		}
		return domain.Room{}, fmt.Errorf("failed to insert room: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Room{}, fmt.Errorf("failed to get room id: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO user_chat_room_membership (user_id, room_id) VALUES (?, ?)`, creatorID, id); err != nil {
		if code, ok := constraintError(err); ok && code == sqlite3.ErrConstraintForeignKey {
			return domain.Room{}, fmt.Errorf("user %d: %w", creatorID, domain.ErrNotFound)
		}
		return domain.Room{}, fmt.Errorf("failed to add creator to room: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Room{}, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return domain.Room{ID: id, Name: name}, nil
}

func (r *Repository) DeleteRoom(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_chat_room_membership WHERE room_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete memberships: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM chat_rooms WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	if err := expectRow(res, "room", id); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *Repository) AddMember(ctx context.Context, userID, roomID int64) error {
	query := `INSERT INTO user_chat_room_membership (user_id, room_id) VALUES (?, ?)`
	if _, err := r.db.ExecContext(ctx, query, userID, roomID); err != nil {
		code, ok := constraintError(err)
		switch {
		case ok && (code == sqlite3.ErrConstraintPrimaryKey || code == sqlite3.ErrConstraintUnique):
			return fmt.Errorf("user %d in room %d: %w", userID, roomID, domain.ErrAlreadyMember)
		case ok && code == sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("user %d or room %d: %w", userID, roomID, domain.ErrNotFound)
		}
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

func expectRow(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
