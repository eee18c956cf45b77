package domain

// Account is one parsed account-authorization-details export, keyed by entity id.
type Account struct {
	Users    map[string]User
	Roles    map[string]Role
	Policies map[string]Policy
	Groups   map[string]Group
}

// PolicyRef points at a managed policy attached to a user, role, or group.
type PolicyRef struct {
	PolicyName string
	PolicyArn  string
}

// InlinePolicy is a policy document embedded directly in a principal.
type InlinePolicy struct {
	PolicyName     string
	PolicyDocument map[string]any
}

type Tag struct {
	Key   string
	Value string
}

type User struct {
	UserID                  string
	UserName                string
	Arn                     string
	CreateDate              string
	AttachedManagedPolicies []PolicyRef
	GroupList               []string
	UserPolicyList          []InlinePolicy
	Tags                    []Tag
}

type Role struct {
	RoleID                   string
	RoleName                 string
	Arn                      string
	CreateDate               string
	AssumeRolePolicyDocument map[string]any
	AttachedManagedPolicies  []PolicyRef
	RolePolicyList           []InlinePolicy
	Tags                     []Tag
}

type Group struct {
	GroupID                 string
	GroupName               string
	Arn                     string
	CreateDate              string
	AttachedManagedPolicies []PolicyRef
	GroupPolicyList         []InlinePolicy
}

// PolicyVersion carries one version's document as opaque JSON. The document
// shape is whatever the export contained; normalization happens at analysis time.
type PolicyVersion struct {
	VersionID string
	Document  map[string]any
	IsDefault bool
}

type Policy struct {
	PolicyID         string
	PolicyName       string
	Arn              string
	CreateDate       string
	DefaultVersionID string
	Versions         []PolicyVersion
	AttachmentCount  int
	IsAttachable     bool
	Description      string
}

// DefaultDocument returns the document of the version matching DefaultVersionID,
// or nil when no such version exists or it carries no document.
func (p Policy) DefaultDocument() map[string]any {
	for _, v := range p.Versions {
		if v.VersionID == p.DefaultVersionID {
			return v.Document
		}
	}
	return nil
}
