package users

import (
	"context"
	"database/sql"
	"strings"

	"shareit/internal/platform/apierr"
	"shareit/internal/platform/db"
)

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn)}
}

// AddUser creates a user. The uniqueness check and the insert run in one
// transaction so two concurrent signups cannot both claim the address.
func (s *Service) AddUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apierr.InvalidArgument("name must not be blank")
	}
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	u := &User{Name: req.Name, Email: req.Email}
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.withTx(tx)
		taken, err := st.EmailTaken(ctx, req.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return apierr.Conflict("email already in use")
		}
		return st.Insert(ctx, u)
	})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *Service) GetUser(ctx context.Context, id int64) (*UserResponse, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserResponse, 0, len(list))
	for i := range list {
		out = append(out, toUserResponse(&list[i]))
	}
	return out, nil
}

// UpdateUser applies a partial patch: nil or blank incoming fields keep the
// stored values.
func (s *Service) UpdateUser(ctx context.Context, id int64, req UpdateUserRequest) (*UserResponse, error) {
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		if err := validateEmail(*req.Email); err != nil {
			return nil, err
		}
	}

	var u *User
	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		st := s.store.withTx(tx)
		got, err := st.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			got.Name = *req.Name
		}
		if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
			taken, err := st.EmailTaken(ctx, *req.Email, id)
			if err != nil {
				return err
			}
			if taken {
				return apierr.Conflict("email already in use")
			}
			got.Email = *req.Email
		}

		if err := st.Update(ctx, got); err != nil {
			return err
		}
		u = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	resp := toUserResponse(u)
	return &resp, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return apierr.InvalidArgument("email must not be blank")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t") {
		return apierr.InvalidArgument("email is not a valid address")
	}
	return nil
}
