package awsiam

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/iam/types"

	"github.com/de-tools/iam-atlas/pkg/models/domain"
)

// Fetcher pulls a full authorization-details snapshot from a live account.
type Fetcher interface {
	Fetch(ctx context.Context) (domain.Account, error)
}

type fetcher struct {
	client iam.GetAccountAuthorizationDetailsAPIClient
}

func NewFetcher(client iam.GetAccountAuthorizationDetailsAPIClient) Fetcher {
	return &fetcher{client: client}
}

// NewFetcherFromEnv builds a fetcher using the default AWS credential chain.
func NewFetcherFromEnv(ctx context.Context) (Fetcher, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return NewFetcher(iam.NewFromConfig(cfg)), nil
}

// Fetch walks every page of GetAccountAuthorizationDetails and assembles the
// account keyed by entity ids. Policy documents arrive URL-encoded and are
// decoded into objects here.
func (f *fetcher) Fetch(ctx context.Context) (domain.Account, error) {
	account := domain.Account{
		Users:    make(map[string]domain.User),
		Roles:    make(map[string]domain.Role),
		Policies: make(map[string]domain.Policy),
		Groups:   make(map[string]domain.Group),
	}

	paginator := iam.NewGetAccountAuthorizationDetailsPaginator(f.client, &iam.GetAccountAuthorizationDetailsInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return domain.Account{}, fmt.Errorf("get account authorization details: %w", err)
		}

		for _, u := range page.UserDetailList {
			user := mapUserDetail(u)
			account.Users[user.UserID] = user
		}
		for _, g := range page.GroupDetailList {
			group := mapGroupDetail(g)
			account.Groups[group.GroupID] = group
		}
		for _, r := range page.RoleDetailList {
			role := mapRoleDetail(r)
			account.Roles[role.RoleID] = role
		}
		for _, p := range page.Policies {
			policy := mapPolicyDetail(p)
			account.Policies[policy.PolicyID] = policy
		}
	}
	return account, nil
}

func mapUserDetail(u types.UserDetail) domain.User {
	user := domain.User{
		UserID:                  aws.ToString(u.UserId),
		UserName:                aws.ToString(u.UserName),
		Arn:                     aws.ToString(u.Arn),
		AttachedManagedPolicies: mapAttachedPolicies(u.AttachedManagedPolicies),
		GroupList:               u.GroupList,
		UserPolicyList:          mapInlinePolicies(u.UserPolicyList),
		Tags:                    mapTags(u.Tags),
	}
	if u.CreateDate != nil {
		user.CreateDate = u.CreateDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	return user
}

func mapGroupDetail(g types.GroupDetail) domain.Group {
	group := domain.Group{
		GroupID:                 aws.ToString(g.GroupId),
		GroupName:               aws.ToString(g.GroupName),
		Arn:                     aws.ToString(g.Arn),
		AttachedManagedPolicies: mapAttachedPolicies(g.AttachedManagedPolicies),
		GroupPolicyList:         mapInlinePolicies(g.GroupPolicyList),
	}
	if g.CreateDate != nil {
		group.CreateDate = g.CreateDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	return group
}

func mapRoleDetail(r types.RoleDetail) domain.Role {
	role := domain.Role{
		RoleID:                   aws.ToString(r.RoleId),
		RoleName:                 aws.ToString(r.RoleName),
		Arn:                      aws.ToString(r.Arn),
		AssumeRolePolicyDocument: decodeDocument(r.AssumeRolePolicyDocument),
		AttachedManagedPolicies:  mapAttachedPolicies(r.AttachedManagedPolicies),
		RolePolicyList:           mapInlinePolicies(r.RolePolicyList),
		Tags:                     mapTags(r.Tags),
	}
	if r.CreateDate != nil {
		role.CreateDate = r.CreateDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	return role
}

func mapPolicyDetail(p types.ManagedPolicyDetail) domain.Policy {
	policy := domain.Policy{
		PolicyID:         aws.ToString(p.PolicyId),
		PolicyName:       aws.ToString(p.PolicyName),
		Arn:              aws.ToString(p.Arn),
		DefaultVersionID: aws.ToString(p.DefaultVersionId),
		AttachmentCount:  int(aws.ToInt32(p.AttachmentCount)),
		IsAttachable:     p.IsAttachable,
		Description:      aws.ToString(p.Description),
	}
	if p.CreateDate != nil {
		policy.CreateDate = p.CreateDate.UTC().Format("2006-01-02T15:04:05Z")
	}
	for _, v := range p.PolicyVersionList {
		policy.Versions = append(policy.Versions, domain.PolicyVersion{
			VersionID: aws.ToString(v.VersionId),
			Document:  decodeDocument(v.Document),
			IsDefault: v.IsDefaultVersion,
		})
	}
	return policy
}

func mapAttachedPolicies(refs []types.AttachedPolicy) []domain.PolicyRef {
	out := make([]domain.PolicyRef, 0, len(refs))
	for _, ref := range refs {
		out = append(out, domain.PolicyRef{
			PolicyName: aws.ToString(ref.PolicyName),
			PolicyArn:  aws.ToString(ref.PolicyArn),
		})
	}
	return out
}

func mapInlinePolicies(policies []types.PolicyDetail) []domain.InlinePolicy {
	out := make([]domain.InlinePolicy, 0, len(policies))
	for _, p := range policies {
		out = append(out, domain.InlinePolicy{
			PolicyName:     aws.ToString(p.PolicyName),
			PolicyDocument: decodeDocument(p.PolicyDocument),
		})
	}
	return out
}

func mapTags(tags []types.Tag) []domain.Tag {
	out := make([]domain.Tag, 0, len(tags))
	for _, t := range tags {
		out = append(out, domain.Tag{
			Key:   aws.ToString(t.Key),
			Value: aws.ToString(t.Value),
		})
	}
	return out
}

// decodeDocument handles the URL-encoded JSON the API returns for policy
// documents. Undecodable documents come back nil rather than failing the
// whole snapshot.
func decodeDocument(doc *string) map[string]any {
	if doc == nil || *doc == "" {
		return nil
	}
	raw := *doc
	if decoded, err := url.QueryUnescape(raw); err == nil {
		raw = decoded
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
