package store

import (
	"encoding/json"
	"time"
)

type Upload struct {
	ID               string
	Name             string
	OriginalFilename string
	UploadedAt       time.Time
	Size             int64
}

// Entity rows keep nested structures JSON-encoded, matching the column layout.

type User struct {
	UserID                  string
	UserName                string
	Arn                     string
	CreateDate              string
	AttachedManagedPolicies json.RawMessage
	GroupList               json.RawMessage
	UserPolicyList          json.RawMessage
	Tags                    json.RawMessage
}

type Role struct {
	RoleID                   string
	RoleName                 string
	Arn                      string
	CreateDate               string
	AssumeRolePolicyDocument json.RawMessage
	AttachedManagedPolicies  json.RawMessage
	RolePolicyList           json.RawMessage
	Tags                     json.RawMessage
}

type Policy struct {
	PolicyID          string
	PolicyName        string
	Arn               string
	CreateDate        string
	DefaultVersionID  string
	PolicyVersionList json.RawMessage
	AttachmentCount   int
	IsAttachable      bool
	Description       string
}

type Group struct {
	GroupID                 string
	GroupName               string
	Arn                     string
	CreateDate              string
	AttachedManagedPolicies json.RawMessage
	GroupPolicyList         json.RawMessage
}

// Dataset is the full set of entity rows belonging to one upload.
type Dataset struct {
	Users    []User
	Roles    []Role
	Policies []Policy
	Groups   []Group
}
