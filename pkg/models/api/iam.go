package api

// Entity shapes mirror the vendor export field names one-to-one so the
// stored dataset round-trips byte-compatible with what the client uploaded.

type PolicyRef struct {
	PolicyName string `json:"PolicyName"`
	PolicyArn  string `json:"PolicyArn"`
}

type InlinePolicy struct {
	PolicyName     string         `json:"PolicyName"`
	PolicyDocument map[string]any `json:"PolicyDocument"`
}

type Tag struct {
	Key   string `json:"Key"`
	Value string `json:"Value"`
}

type User struct {
	UserID                  string         `json:"UserId"`
	UserName                string         `json:"UserName"`
	Arn                     string         `json:"Arn"`
	CreateDate              string         `json:"CreateDate"`
	AttachedManagedPolicies []PolicyRef    `json:"AttachedManagedPolicies"`
	GroupList               []string       `json:"GroupList"`
	UserPolicyList          []InlinePolicy `json:"UserPolicyList"`
	Tags                    []Tag          `json:"Tags"`
}

type Role struct {
	RoleID                   string         `json:"RoleId"`
	RoleName                 string         `json:"RoleName"`
	Arn                      string         `json:"Arn"`
	CreateDate               string         `json:"CreateDate"`
	AssumeRolePolicyDocument map[string]any `json:"AssumeRolePolicyDocument"`
	AttachedManagedPolicies  []PolicyRef    `json:"AttachedManagedPolicies"`
	RolePolicyList           []InlinePolicy `json:"RolePolicyList"`
	Tags                     []Tag          `json:"Tags"`
}

type Group struct {
	GroupID                 string         `json:"GroupId"`
	GroupName               string         `json:"GroupName"`
	Arn                     string         `json:"Arn"`
	CreateDate              string         `json:"CreateDate"`
	AttachedManagedPolicies []PolicyRef    `json:"AttachedManagedPolicies"`
	GroupPolicyList         []InlinePolicy `json:"GroupPolicyList"`
}

type PolicyVersion struct {
	VersionID        string         `json:"VersionId"`
	Document         map[string]any `json:"Document"`
	IsDefaultVersion bool           `json:"IsDefaultVersion"`
}

type Policy struct {
	PolicyID          string          `json:"PolicyId"`
	PolicyName        string          `json:"PolicyName"`
	Arn               string          `json:"Arn"`
	CreateDate        string          `json:"CreateDate"`
	DefaultVersionID  string          `json:"DefaultVersionId"`
	PolicyVersionList []PolicyVersion `json:"PolicyVersionList"`
	AttachmentCount   int             `json:"AttachmentCount"`
	IsAttachable      bool            `json:"IsAttachable"`
	Description       string          `json:"Description"`
}

// AccountData is the processed dataset served back for an upload.
type AccountData struct {
	Users    map[string]User   `json:"users"`
	Roles    map[string]Role   `json:"roles"`
	Policies map[string]Policy `json:"policies"`
	Groups   map[string]Group  `json:"groups"`
}
