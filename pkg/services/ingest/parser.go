package ingest

import (
	"encoding/json"
	"fmt"

	"github.com/de-tools/iam-atlas/pkg/adapters"
	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
)

// export is the document produced by
// `aws iam get-account-authorization-details`.
type export struct {
	UserDetailList  []api.User   `json:"UserDetailList"`
	GroupDetailList []api.Group  `json:"GroupDetailList"`
	RoleDetailList  []api.Role   `json:"RoleDetailList"`
	Policies        []api.Policy `json:"Policies"`
}

// ParseExport decodes an account-authorization-details export into an
// Account keyed by entity IDs. Entities with unknown extra fields are
// accepted, unknown top-level keys are ignored. Invalid JSON is the only
// error this layer reports.
func ParseExport(raw []byte) (domain.Account, error) {
	var doc export
	if err := json.Unmarshal(raw, &doc); err != nil {
		return domain.Account{}, fmt.Errorf("decode authorization details: %w", err)
	}

	account := domain.Account{
		Users:    make(map[string]domain.User, len(doc.UserDetailList)),
		Roles:    make(map[string]domain.Role, len(doc.RoleDetailList)),
		Policies: make(map[string]domain.Policy, len(doc.Policies)),
		Groups:   make(map[string]domain.Group, len(doc.GroupDetailList)),
	}
	for _, u := range doc.UserDetailList {
		account.Users[u.UserID] = adapters.MapUserApiToDomain(u)
	}
	for _, g := range doc.GroupDetailList {
		account.Groups[g.GroupID] = adapters.MapGroupApiToDomain(g)
	}
	for _, r := range doc.RoleDetailList {
		account.Roles[r.RoleID] = adapters.MapRoleApiToDomain(r)
	}
	for _, p := range doc.Policies {
		account.Policies[p.PolicyID] = adapters.MapPolicyApiToDomain(p)
	}
	return account, nil
}

// ParseAccountData decodes the already-keyed dataset shape that clients
// upload through the web API.
func ParseAccountData(raw []byte) (domain.Account, error) {
	var data api.AccountData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.Account{}, fmt.Errorf("decode account data: %w", err)
	}
	return adapters.MapAccountDataApiToDomain(data), nil
}

// Parse accepts either shape and routes on the top-level field names, so a
// dataset file written by the fetch command reads back the same as a raw
// vendor export.
func Parse(raw []byte) (domain.Account, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return domain.Account{}, fmt.Errorf("decode document: %w", err)
	}
	for _, key := range []string{"UserDetailList", "RoleDetailList", "GroupDetailList", "Policies"} {
		if _, ok := probe[key]; ok {
			return ParseExport(raw)
		}
	}
	return ParseAccountData(raw)
}
