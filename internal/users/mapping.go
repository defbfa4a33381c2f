package users

import (
	"strings"

	"github.com/scriba-dms/scriba/pkg/repository"
)

// Roles are stored as a text[] column and selected as a comma-joined
// string so the rows scan cleanly through database/sql.
const userColumns = `u.id, u.username, u.email, u.first_name, u.last_name, array_to_string(u.roles, ','), u.created_at`

const (
	selectByUsername = `SELECT ` + userColumns + ` FROM public.users u WHERE u.username = $1`
	selectByID       = `SELECT ` + userColumns + ` FROM public.users u WHERE u.id = $1`
	selectAll        = `SELECT ` + userColumns + ` FROM public.users u ORDER BY u.created_at, u.id`
	selectByRole     = `SELECT ` + userColumns + ` FROM public.users u WHERE $1 = ANY(u.roles) ORDER BY u.created_at, u.id`
	selectHash       = `SELECT u.password_hash FROM public.users u WHERE u.username = $1`
	countByRole      = `SELECT COUNT(*) FROM public.users u WHERE $1 = ANY(u.roles)`

	insertUser = `
		INSERT INTO public.users(id, username, email, password_hash, first_name, last_name, roles)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, username, email, first_name, last_name, array_to_string(roles, ','), created_at`
)

func scanUser(s repository.Scanner) (User, error) {
	var (
		u     User
		roles string
	)

	err := s.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&roles,
		&u.CreatedAt,
	)
	if err != nil {
		return u, err
	}

	if roles != "" {
		names := strings.Split(roles, ",")
		u.Roles = make([]Role, len(names))
		for i, name := range names {
			u.Roles[i] = Role(name)
		}
	}

	return u, nil
}
