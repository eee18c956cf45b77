package uploads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/iam-atlas/pkg/models/store"
)

// ErrNotFound is returned when the requested upload does not exist.
var ErrNotFound = errors.New("upload not found")

// Store persists uploads and their entity datasets. An upload and its
// dataset are written in one transaction; deleting the upload cascades
// to the entity and advisor tables.
type Store interface {
	Create(ctx context.Context, upload store.Upload, ds store.Dataset) error
	List(ctx context.Context) ([]store.Upload, error)
	Get(ctx context.Context, id string) (store.Upload, error)
	GetDataset(ctx context.Context, id string) (store.Dataset, error)
	Delete(ctx context.Context, id string) error
	CurrentID(ctx context.Context) (string, error)
	SetCurrent(ctx context.Context, id string) error
}

type uploadStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &uploadStore{db: db}, nil
}

func (u *uploadStore) Create(ctx context.Context, upload store.Upload, ds store.Dataset) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO uploads (id, name, original_filename, uploaded_at, size) VALUES (?, ?, ?, ?, ?)`,
		upload.ID, upload.Name, upload.OriginalFilename, upload.UploadedAt, upload.Size,
	)
	if err != nil {
		return fmt.Errorf("insert upload: %w", err)
	}

	if err := insertUsers(ctx, tx, upload.ID, ds.Users); err != nil {
		return err
	}
	if err := insertRoles(ctx, tx, upload.ID, ds.Roles); err != nil {
		return err
	}
	if err := insertPolicies(ctx, tx, upload.ID, ds.Policies); err != nil {
		return err
	}
	if err := insertGroups(ctx, tx, upload.ID, ds.Groups); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upload: %w", err)
	}
	return nil
}

func (u *uploadStore) List(ctx context.Context) ([]store.Upload, error) {
	rows, err := u.db.QueryContext(ctx,
		`SELECT id, name, original_filename, uploaded_at, size FROM uploads ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}
	defer rows.Close()

	uploads := make([]store.Upload, 0)
	for rows.Next() {
		var up store.Upload
		if err := rows.Scan(&up.ID, &up.Name, &up.OriginalFilename, &up.UploadedAt, &up.Size); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, up)
	}
	return uploads, rows.Err()
}

func (u *uploadStore) Get(ctx context.Context, id string) (store.Upload, error) {
	var up store.Upload
	err := u.db.QueryRowContext(ctx,
		`SELECT id, name, original_filename, uploaded_at, size FROM uploads WHERE id = ?`, id).
		Scan(&up.ID, &up.Name, &up.OriginalFilename, &up.UploadedAt, &up.Size)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Upload{}, ErrNotFound
	}
	if err != nil {
		return store.Upload{}, fmt.Errorf("get upload: %w", err)
	}
	return up, nil
}

func (u *uploadStore) GetDataset(ctx context.Context, id string) (store.Dataset, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return store.Dataset{}, err
	}

	var ds store.Dataset
	var err error
	if ds.Users, err = u.queryUsers(ctx, id); err != nil {
		return store.Dataset{}, err
	}
	if ds.Roles, err = u.queryRoles(ctx, id); err != nil {
		return store.Dataset{}, err
	}
	if ds.Policies, err = u.queryPolicies(ctx, id); err != nil {
		return store.Dataset{}, err
	}
	if ds.Groups, err = u.queryGroups(ctx, id); err != nil {
		return store.Dataset{}, err
	}
	return ds, nil
}

func (u *uploadStore) Delete(ctx context.Context, id string) error {
	res, err := u.db.ExecContext(ctx, `DELETE FROM uploads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete upload: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CurrentID resolves the active upload: the explicitly selected one when a
// selection exists, otherwise the most recent upload. Returns empty string
// when no uploads exist.
func (u *uploadStore) CurrentID(ctx context.Context) (string, error) {
	var id string
	err := u.db.QueryRowContext(ctx, `SELECT upload_id FROM current_upload WHERE slot = 1`).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("get current upload: %w", err)
	}

	err = u.db.QueryRowContext(ctx,
		`SELECT id FROM uploads ORDER BY uploaded_at DESC, id LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get latest upload: %w", err)
	}
	return id, nil
}

func (u *uploadStore) SetCurrent(ctx context.Context, id string) error {
	if _, err := u.Get(ctx, id); err != nil {
		return err
	}
	_, err := u.db.ExecContext(ctx,
		`INSERT INTO current_upload (slot, upload_id) VALUES (1, ?)
		 ON CONFLICT (slot) DO UPDATE SET upload_id = excluded.upload_id`, id)
	if err != nil {
		return fmt.Errorf("set current upload: %w", err)
	}
	return nil
}

func insertUsers(ctx context.Context, tx *sql.Tx, uploadID string, users []store.User) error {
	if len(users) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO users (
			upload_id, user_id, user_name, arn, create_date,
			attached_policies, group_list, inline_policies, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare users insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range users {
		_, err := stmt.ExecContext(ctx,
			uploadID, row.UserID, row.UserName, row.Arn, row.CreateDate,
			[]byte(row.AttachedManagedPolicies), []byte(row.GroupList),
			[]byte(row.UserPolicyList), []byte(row.Tags),
		)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", row.UserID, err)
		}
	}
	return nil
}

func insertRoles(ctx context.Context, tx *sql.Tx, uploadID string, roles []store.Role) error {
	if len(roles) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO roles (
			upload_id, role_id, role_name, arn, create_date,
			assume_role_policy, attached_policies, inline_policies, tags
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare roles insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range roles {
		_, err := stmt.ExecContext(ctx,
			uploadID, row.RoleID, row.RoleName, row.Arn, row.CreateDate,
			[]byte(row.AssumeRolePolicyDocument), []byte(row.AttachedManagedPolicies),
			[]byte(row.RolePolicyList), []byte(row.Tags),
		)
		if err != nil {
			return fmt.Errorf("insert role %s: %w", row.RoleID, err)
		}
	}
	return nil
}

func insertPolicies(ctx context.Context, tx *sql.Tx, uploadID string, policies []store.Policy) error {
	if len(policies) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO policies (
			upload_id, policy_id, policy_name, arn, create_date,
			default_version_id, version_list, attachment_count, is_attachable, description
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare policies insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range policies {
		_, err := stmt.ExecContext(ctx,
			uploadID, row.PolicyID, row.PolicyName, row.Arn, row.CreateDate,
			row.DefaultVersionID, []byte(row.PolicyVersionList),
			row.AttachmentCount, row.IsAttachable, row.Description,
		)
		if err != nil {
			return fmt.Errorf("insert policy %s: %w", row.PolicyID, err)
		}
	}
	return nil
}

func insertGroups(ctx context.Context, tx *sql.Tx, uploadID string, groups []store.Group) error {
	if len(groups) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO groups (
			upload_id, group_id, group_name, arn, create_date,
			attached_policies, inline_policies
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare groups insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range groups {
		_, err := stmt.ExecContext(ctx,
			uploadID, row.GroupID, row.GroupName, row.Arn, row.CreateDate,
			[]byte(row.AttachedManagedPolicies), []byte(row.GroupPolicyList),
		)
		if err != nil {
			return fmt.Errorf("insert group %s: %w", row.GroupID, err)
		}
	}
	return nil
}

func (u *uploadStore) queryUsers(ctx context.Context, uploadID string) ([]store.User, error) {
	rows, err := u.db.QueryContext(ctx, `
		SELECT user_id, user_name, arn, create_date,
		       attached_policies, group_list, inline_policies, tags
		FROM users WHERE upload_id = ? ORDER BY user_id`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]store.User, 0)
	for rows.Next() {
		var row store.User
		var attached, groups, inline, tags []byte
		if err := rows.Scan(&row.UserID, &row.UserName, &row.Arn, &row.CreateDate,
			&attached, &groups, &inline, &tags); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		row.AttachedManagedPolicies = attached
		row.GroupList = groups
		row.UserPolicyList = inline
		row.Tags = tags
		users = append(users, row)
	}
	return users, rows.Err()
}

func (u *uploadStore) queryRoles(ctx context.Context, uploadID string) ([]store.Role, error) {
	rows, err := u.db.QueryContext(ctx, `
		SELECT role_id, role_name, arn, create_date,
		       assume_role_policy, attached_policies, inline_policies, tags
		FROM roles WHERE upload_id = ? ORDER BY role_id`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("query roles: %w", err)
	}
	defer rows.Close()

	roles := make([]store.Role, 0)
	for rows.Next() {
		var row store.Role
		var assume, attached, inline, tags []byte
		if err := rows.Scan(&row.RoleID, &row.RoleName, &row.Arn, &row.CreateDate,
			&assume, &attached, &inline, &tags); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		row.AssumeRolePolicyDocument = assume
		row.AttachedManagedPolicies = attached
		row.RolePolicyList = inline
		row.Tags = tags
		roles = append(roles, row)
	}
	return roles, rows.Err()
}

func (u *uploadStore) queryPolicies(ctx context.Context, uploadID string) ([]store.Policy, error) {
	rows, err := u.db.QueryContext(ctx, `
		SELECT policy_id, policy_name, arn, create_date,
		       default_version_id, version_list, attachment_count, is_attachable, description
		FROM policies WHERE upload_id = ? ORDER BY policy_id`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	policies := make([]store.Policy, 0)
	for rows.Next() {
		var row store.Policy
		var versions []byte
		if err := rows.Scan(&row.PolicyID, &row.PolicyName, &row.Arn, &row.CreateDate,
			&row.DefaultVersionID, &versions, &row.AttachmentCount,
			&row.IsAttachable, &row.Description); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		row.PolicyVersionList = versions
		policies = append(policies, row)
	}
	return policies, rows.Err()
}

func (u *uploadStore) queryGroups(ctx context.Context, uploadID string) ([]store.Group, error) {
	rows, err := u.db.QueryContext(ctx, `
		SELECT group_id, group_name, arn, create_date, attached_policies, inline_policies
		FROM groups WHERE upload_id = ? ORDER BY group_id`, uploadID)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := make([]store.Group, 0)
	for rows.Next() {
		var row store.Group
		var attached, inline []byte
		if err := rows.Scan(&row.GroupID, &row.GroupName, &row.Arn, &row.CreateDate,
			&attached, &inline); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		row.AttachedManagedPolicies = attached
		row.GroupPolicyList = inline
		groups = append(groups, row)
	}
	return groups, rows.Err()
}
