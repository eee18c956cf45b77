package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleExport = `{
	"UserDetailList": [
		{
			"UserId": "AIDA1234567890EXAMPLE",
			"UserName": "alice",
			"Arn": "arn:aws:iam::111122223333:user/alice",
			"CreateDate": "2024-01-15T10:00:00Z",
			"AttachedManagedPolicies": [
				{"PolicyName": "ReadOnlyAccess", "PolicyArn": "arn:aws:iam::aws:policy/ReadOnlyAccess"}
			],
			"GroupList": ["developers"],
			"UserPolicyList": [
				{"PolicyName": "inline-s3", "PolicyDocument": {"Version": "2012-10-17"}}
			],
			"Tags": [{"Key": "team", "Value": "platform"}]
		}
	],
	"GroupDetailList": [
		{
			"GroupId": "AGPA1234567890EXAMPLE",
			"GroupName": "developers",
			"Arn": "arn:aws:iam::111122223333:group/developers",
			"CreateDate": "2023-06-01T00:00:00Z"
		}
	],
	"RoleDetailList": [
		{
			"RoleId": "AROA1234567890EXAMPLE",
			"RoleName": "deploy",
			"Arn": "arn:aws:iam::111122223333:role/deploy",
			"CreateDate": "2023-06-01T00:00:00Z",
			"AssumeRolePolicyDocument": {"Version": "2012-10-17"}
		}
	],
	"Policies": [
		{
			"PolicyId": "ANPA1234567890EXAMPLE",
			"PolicyName": "deploy-policy",
			"Arn": "arn:aws:iam::111122223333:policy/deploy-policy",
			"CreateDate": "2023-06-01T00:00:00Z",
			"DefaultVersionId": "v2",
			"AttachmentCount": 1,
			"IsAttachable": true,
			"PolicyVersionList": [
				{"VersionId": "v1", "Document": {"Version": "2012-10-17", "Statement": []}, "IsDefaultVersion": false},
				{"VersionId": "v2", "Document": {"Version": "2012-10-17", "Statement": [{"Effect": "Allow", "Action": "s3:GetObject", "Resource": "*"}]}, "IsDefaultVersion": true}
			]
		}
	]
}`

func TestParseExport(t *testing.T) {
	account, err := ParseExport([]byte(sampleExport))
	require.NoError(t, err)

	require.Len(t, account.Users, 1)
	user := account.Users["AIDA1234567890EXAMPLE"]
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, []string{"developers"}, user.GroupList)
	require.Len(t, user.AttachedManagedPolicies, 1)
	assert.Equal(t, "ReadOnlyAccess", user.AttachedManagedPolicies[0].PolicyName)
	require.Len(t, user.UserPolicyList, 1)
	assert.Equal(t, "inline-s3", user.UserPolicyList[0].PolicyName)

	require.Len(t, account.Groups, 1)
	assert.Equal(t, "developers", account.Groups["AGPA1234567890EXAMPLE"].GroupName)

	require.Len(t, account.Roles, 1)
	role := account.Roles["AROA1234567890EXAMPLE"]
	assert.Equal(t, "deploy", role.RoleName)
	assert.Equal(t, "2012-10-17", role.AssumeRolePolicyDocument["Version"])

	require.Len(t, account.Policies, 1)
	policy := account.Policies["ANPA1234567890EXAMPLE"]
	assert.Equal(t, "v2", policy.DefaultVersionID)
	require.NotNil(t, policy.DefaultDocument())
	assert.Contains(t, policy.DefaultDocument(), "Statement")
}

func TestParseExport_EmptyDocument(t *testing.T) {
	account, err := ParseExport([]byte(`{}`))
	require.NoError(t, err)
	assert.Empty(t, account.Users)
	assert.Empty(t, account.Roles)
	assert.Empty(t, account.Policies)
	assert.Empty(t, account.Groups)
}

func TestParseExport_InvalidJSON(t *testing.T) {
	_, err := ParseExport([]byte(`{"Policies": [`))
	require.Error(t, err)
}

func TestParseAccountData(t *testing.T) {
	raw := `{
		"users": {"AIDA1": {"UserId": "AIDA1", "UserName": "bob"}},
		"roles": {},
		"policies": {"ANPA1": {"PolicyId": "ANPA1", "PolicyName": "p", "DefaultVersionId": "v1"}},
		"groups": {}
	}`
	account, err := ParseAccountData([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, "bob", account.Users["AIDA1"].UserName)
	assert.Equal(t, "p", account.Policies["ANPA1"].PolicyName)
}

func TestParse_RoutesOnDocumentShape(t *testing.T) {
	account, err := Parse([]byte(sampleExport))
	require.NoError(t, err)
	assert.Contains(t, account.Users, "AIDA1234567890EXAMPLE")

	keyed := `{"users": {"AIDA1": {"UserId": "AIDA1", "UserName": "bob"}}}`
	account, err = Parse([]byte(keyed))
	require.NoError(t, err)
	assert.Equal(t, "bob", account.Users["AIDA1"].UserName)

	_, err = Parse([]byte(`[1, 2]`))
	require.Error(t, err)
}
