package awsiam

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthDetailsClient struct {
	pages []*iam.GetAccountAuthorizationDetailsOutput
	calls int
}

func (s *stubAuthDetailsClient) GetAccountAuthorizationDetails(
	_ context.Context,
	_ *iam.GetAccountAuthorizationDetailsInput,
	_ ...func(*iam.Options),
) (*iam.GetAccountAuthorizationDetailsOutput, error) {
	page := s.pages[s.calls]
	s.calls++
	return page, nil
}

func TestFetcher_Fetch_AssemblesPages(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	encodedDoc := url.QueryEscape(`{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Action":"s3:*","Resource":"*"}]}`)

	client := &stubAuthDetailsClient{
		pages: []*iam.GetAccountAuthorizationDetailsOutput{
			{
				IsTruncated: true,
				Marker:      aws.String("page-2"),
				UserDetailList: []types.UserDetail{
					{
						UserId:     aws.String("AIDA1"),
						UserName:   aws.String("alice"),
						Arn:        aws.String("arn:aws:iam::111122223333:user/alice"),
						CreateDate: aws.Time(created),
						GroupList:  []string{"developers"},
						AttachedManagedPolicies: []types.AttachedPolicy{
							{PolicyName: aws.String("ReadOnlyAccess"), PolicyArn: aws.String("arn:aws:iam::aws:policy/ReadOnlyAccess")},
						},
					},
				},
			},
			{
				RoleDetailList: []types.RoleDetail{
					{
						RoleId:                   aws.String("AROA1"),
						RoleName:                 aws.String("deploy"),
						AssumeRolePolicyDocument: aws.String(url.QueryEscape(`{"Version":"2012-10-17"}`)),
					},
				},
				Policies: []types.ManagedPolicyDetail{
					{
						PolicyId:         aws.String("ANPA1"),
						PolicyName:       aws.String("deploy-policy"),
						DefaultVersionId: aws.String("v1"),
						AttachmentCount:  aws.Int32(2),
						IsAttachable:     true,
						PolicyVersionList: []types.PolicyVersion{
							{
								VersionId:        aws.String("v1"),
								Document:         aws.String(encodedDoc),
								IsDefaultVersion: true,
							},
						},
					},
				},
			},
		},
	}

	account, err := NewFetcher(client).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, client.calls)

	user := account.Users["AIDA1"]
	assert.Equal(t, "alice", user.UserName)
	assert.Equal(t, "2024-01-15T10:00:00Z", user.CreateDate)
	require.Len(t, user.AttachedManagedPolicies, 1)

	role := account.Roles["AROA1"]
	assert.Equal(t, "2012-10-17", role.AssumeRolePolicyDocument["Version"])

	policy := account.Policies["ANPA1"]
	assert.Equal(t, 2, policy.AttachmentCount)
	require.Len(t, policy.Versions, 1)
	assert.True(t, policy.Versions[0].IsDefault)

	doc := policy.DefaultDocument()
	require.NotNil(t, doc)
	assert.Contains(t, doc, "Statement")
}

func TestDecodeDocument(t *testing.T) {
	tests := []struct {
		name string
		doc  *string
		want map[string]any
	}{
		{name: "nil document", doc: nil, want: nil},
		{name: "empty document", doc: aws.String(""), want: nil},
		{
			name: "url-encoded JSON",
			doc:  aws.String(url.QueryEscape(`{"Version":"2012-10-17"}`)),
			want: map[string]any{"Version": "2012-10-17"},
		},
		{
			name: "plain JSON",
			doc:  aws.String(`{"Version":"2012-10-17"}`),
			want: map[string]any{"Version": "2012-10-17"},
		},
		{name: "garbage", doc: aws.String("not json"), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeDocument(tt.doc))
		})
	}
}
