package adapters

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/iam-atlas/pkg/models/domain"
	"github.com/de-tools/iam-atlas/pkg/models/store"
)

// MapAccountDomainToDataset flattens an account into entity rows with the
// nested lists JSON-encoded for storage.
func MapAccountDomainToDataset(account domain.Account) (store.Dataset, error) {
	ds := store.Dataset{
		Users:    make([]store.User, 0, len(account.Users)),
		Roles:    make([]store.Role, 0, len(account.Roles)),
		Policies: make([]store.Policy, 0, len(account.Policies)),
		Groups:   make([]store.Group, 0, len(account.Groups)),
	}
	for _, u := range account.Users {
		row, err := mapUserDomainToStore(u)
		if err != nil {
			return store.Dataset{}, err
		}
		ds.Users = append(ds.Users, row)
	}
	for _, r := range account.Roles {
		row, err := mapRoleDomainToStore(r)
		if err != nil {
			return store.Dataset{}, err
		}
		ds.Roles = append(ds.Roles, row)
	}
	for _, p := range account.Policies {
		row, err := mapPolicyDomainToStore(p)
		if err != nil {
			return store.Dataset{}, err
		}
		ds.Policies = append(ds.Policies, row)
	}
	for _, g := range account.Groups {
		row, err := mapGroupDomainToStore(g)
		if err != nil {
			return store.Dataset{}, err
		}
		ds.Groups = append(ds.Groups, row)
	}
	return ds, nil
}

// MapDatasetStoreToDomain reassembles an account from stored entity rows.
// Rows with undecodable nested JSON keep their scalar fields and lose the
// broken list rather than failing the whole dataset.
func MapDatasetStoreToDomain(ds store.Dataset) domain.Account {
	account := domain.Account{
		Users:    make(map[string]domain.User, len(ds.Users)),
		Roles:    make(map[string]domain.Role, len(ds.Roles)),
		Policies: make(map[string]domain.Policy, len(ds.Policies)),
		Groups:   make(map[string]domain.Group, len(ds.Groups)),
	}
	for _, row := range ds.Users {
		u := domain.User{
			UserID:     row.UserID,
			UserName:   row.UserName,
			Arn:        row.Arn,
			CreateDate: row.CreateDate,
		}
		decodeJSON(row.AttachedManagedPolicies, &u.AttachedManagedPolicies)
		decodeJSON(row.GroupList, &u.GroupList)
		decodeJSON(row.UserPolicyList, &u.UserPolicyList)
		decodeJSON(row.Tags, &u.Tags)
		account.Users[u.UserID] = u
	}
	for _, row := range ds.Roles {
		r := domain.Role{
			RoleID:     row.RoleID,
			RoleName:   row.RoleName,
			Arn:        row.Arn,
			CreateDate: row.CreateDate,
		}
		decodeJSON(row.AssumeRolePolicyDocument, &r.AssumeRolePolicyDocument)
		decodeJSON(row.AttachedManagedPolicies, &r.AttachedManagedPolicies)
		decodeJSON(row.RolePolicyList, &r.RolePolicyList)
		decodeJSON(row.Tags, &r.Tags)
		account.Roles[r.RoleID] = r
	}
	for _, row := range ds.Policies {
		p := domain.Policy{
			PolicyID:         row.PolicyID,
			PolicyName:       row.PolicyName,
			Arn:              row.Arn,
			CreateDate:       row.CreateDate,
			DefaultVersionID: row.DefaultVersionID,
			AttachmentCount:  row.AttachmentCount,
			IsAttachable:     row.IsAttachable,
			Description:      row.Description,
		}
		decodeJSON(row.PolicyVersionList, &p.Versions)
		account.Policies[p.PolicyID] = p
	}
	for _, row := range ds.Groups {
		g := domain.Group{
			GroupID:    row.GroupID,
			GroupName:  row.GroupName,
			Arn:        row.Arn,
			CreateDate: row.CreateDate,
		}
		decodeJSON(row.AttachedManagedPolicies, &g.AttachedManagedPolicies)
		decodeJSON(row.GroupPolicyList, &g.GroupPolicyList)
		account.Groups[g.GroupID] = g
	}
	return account
}

func MapUploadDomainToStore(u domain.Upload) store.Upload {
	return store.Upload{
		ID:               u.ID,
		Name:             u.Name,
		OriginalFilename: u.OriginalFilename,
		UploadedAt:       u.UploadedAt,
		Size:             u.Size,
	}
}

func MapUploadStoreToDomain(u store.Upload) domain.Upload {
	return domain.Upload{
		ID:               u.ID,
		Name:             u.Name,
		OriginalFilename: u.OriginalFilename,
		UploadedAt:       u.UploadedAt,
		Size:             u.Size,
	}
}

func mapUserDomainToStore(u domain.User) (store.User, error) {
	attached, err := encodeJSON(u.AttachedManagedPolicies)
	if err != nil {
		return store.User{}, fmt.Errorf("user %s: %w", u.UserID, err)
	}
	groups, err := encodeJSON(u.GroupList)
	if err != nil {
		return store.User{}, fmt.Errorf("user %s: %w", u.UserID, err)
	}
	inline, err := encodeJSON(u.UserPolicyList)
	if err != nil {
		return store.User{}, fmt.Errorf("user %s: %w", u.UserID, err)
	}
	tags, err := encodeJSON(u.Tags)
	if err != nil {
		return store.User{}, fmt.Errorf("user %s: %w", u.UserID, err)
	}
	return store.User{
		UserID:                  u.UserID,
		UserName:                u.UserName,
		Arn:                     u.Arn,
		CreateDate:              u.CreateDate,
		AttachedManagedPolicies: attached,
		GroupList:               groups,
		UserPolicyList:          inline,
		Tags:                    tags,
	}, nil
}

func mapRoleDomainToStore(r domain.Role) (store.Role, error) {
	assume, err := encodeJSON(r.AssumeRolePolicyDocument)
	if err != nil {
		return store.Role{}, fmt.Errorf("role %s: %w", r.RoleID, err)
	}
	attached, err := encodeJSON(r.AttachedManagedPolicies)
	if err != nil {
		return store.Role{}, fmt.Errorf("role %s: %w", r.RoleID, err)
	}
	inline, err := encodeJSON(r.RolePolicyList)
	if err != nil {
		return store.Role{}, fmt.Errorf("role %s: %w", r.RoleID, err)
	}
	tags, err := encodeJSON(r.Tags)
	if err != nil {
		return store.Role{}, fmt.Errorf("role %s: %w", r.RoleID, err)
	}
	return store.Role{
		RoleID:                   r.RoleID,
		RoleName:                 r.RoleName,
		Arn:                      r.Arn,
		CreateDate:               r.CreateDate,
		AssumeRolePolicyDocument: assume,
		AttachedManagedPolicies:  attached,
		RolePolicyList:           inline,
		Tags:                     tags,
	}, nil
}

func mapPolicyDomainToStore(p domain.Policy) (store.Policy, error) {
	versions, err := encodeJSON(p.Versions)
	if err != nil {
		return store.Policy{}, fmt.Errorf("policy %s: %w", p.PolicyID, err)
	}
	return store.Policy{
		PolicyID:          p.PolicyID,
		PolicyName:        p.PolicyName,
		Arn:               p.Arn,
		CreateDate:        p.CreateDate,
		DefaultVersionID:  p.DefaultVersionID,
		PolicyVersionList: versions,
		AttachmentCount:   p.AttachmentCount,
		IsAttachable:      p.IsAttachable,
		Description:       p.Description,
	}, nil
}

func mapGroupDomainToStore(g domain.Group) (store.Group, error) {
	attached, err := encodeJSON(g.AttachedManagedPolicies)
	if err != nil {
		return store.Group{}, fmt.Errorf("group %s: %w", g.GroupID, err)
	}
	inline, err := encodeJSON(g.GroupPolicyList)
	if err != nil {
		return store.Group{}, fmt.Errorf("group %s: %w", g.GroupID, err)
	}
	return store.Group{
		GroupID:                 g.GroupID,
		GroupName:               g.GroupName,
		Arn:                     g.Arn,
		CreateDate:              g.CreateDate,
		AttachedManagedPolicies: attached,
		GroupPolicyList:         inline,
	}, nil
}

func encodeJSON(v any) (json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode nested value: %w", err)
	}
	return raw, nil
}

func decodeJSON(raw json.RawMessage, dst any) {
	if len(raw) == 0 {
		return
	}
	_ = json.Unmarshal(raw, dst)
}
