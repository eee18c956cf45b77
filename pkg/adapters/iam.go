package adapters

import (
	"github.com/de-tools/iam-atlas/pkg/models/api"
	"github.com/de-tools/iam-atlas/pkg/models/domain"
)

func MapPolicyRefApiToDomain(ref api.PolicyRef) domain.PolicyRef {
	return domain.PolicyRef{PolicyName: ref.PolicyName, PolicyArn: ref.PolicyArn}
}

func MapPolicyRefDomainToApi(ref domain.PolicyRef) api.PolicyRef {
	return api.PolicyRef{PolicyName: ref.PolicyName, PolicyArn: ref.PolicyArn}
}

func MapInlinePolicyApiToDomain(p api.InlinePolicy) domain.InlinePolicy {
	return domain.InlinePolicy{PolicyName: p.PolicyName, PolicyDocument: p.PolicyDocument}
}

func MapInlinePolicyDomainToApi(p domain.InlinePolicy) api.InlinePolicy {
	return api.InlinePolicy{PolicyName: p.PolicyName, PolicyDocument: p.PolicyDocument}
}

func MapUserApiToDomain(u api.User) domain.User {
	user := domain.User{
		UserID:     u.UserID,
		UserName:   u.UserName,
		Arn:        u.Arn,
		CreateDate: u.CreateDate,
		GroupList:  u.GroupList,
	}
	for _, ref := range u.AttachedManagedPolicies {
		user.AttachedManagedPolicies = append(user.AttachedManagedPolicies, MapPolicyRefApiToDomain(ref))
	}
	for _, p := range u.UserPolicyList {
		user.UserPolicyList = append(user.UserPolicyList, MapInlinePolicyApiToDomain(p))
	}
	for _, tag := range u.Tags {
		user.Tags = append(user.Tags, domain.Tag{Key: tag.Key, Value: tag.Value})
	}
	return user
}

func MapUserDomainToApi(u domain.User) api.User {
	user := api.User{
		UserID:                  u.UserID,
		UserName:                u.UserName,
		Arn:                     u.Arn,
		CreateDate:              u.CreateDate,
		AttachedManagedPolicies: []api.PolicyRef{},
		GroupList:               u.GroupList,
		UserPolicyList:          []api.InlinePolicy{},
		Tags:                    []api.Tag{},
	}
	for _, ref := range u.AttachedManagedPolicies {
		user.AttachedManagedPolicies = append(user.AttachedManagedPolicies, MapPolicyRefDomainToApi(ref))
	}
	for _, p := range u.UserPolicyList {
		user.UserPolicyList = append(user.UserPolicyList, MapInlinePolicyDomainToApi(p))
	}
	for _, tag := range u.Tags {
		user.Tags = append(user.Tags, api.Tag{Key: tag.Key, Value: tag.Value})
	}
	return user
}

func MapRoleApiToDomain(r api.Role) domain.Role {
	role := domain.Role{
		RoleID:                   r.RoleID,
		RoleName:                 r.RoleName,
		Arn:                      r.Arn,
		CreateDate:               r.CreateDate,
		AssumeRolePolicyDocument: r.AssumeRolePolicyDocument,
	}
	for _, ref := range r.AttachedManagedPolicies {
		role.AttachedManagedPolicies = append(role.AttachedManagedPolicies, MapPolicyRefApiToDomain(ref))
	}
	for _, p := range r.RolePolicyList {
		role.RolePolicyList = append(role.RolePolicyList, MapInlinePolicyApiToDomain(p))
	}
	for _, tag := range r.Tags {
		role.Tags = append(role.Tags, domain.Tag{Key: tag.Key, Value: tag.Value})
	}
	return role
}

func MapRoleDomainToApi(r domain.Role) api.Role {
	role := api.Role{
		RoleID:                   r.RoleID,
		RoleName:                 r.RoleName,
		Arn:                      r.Arn,
		CreateDate:               r.CreateDate,
		AssumeRolePolicyDocument: r.AssumeRolePolicyDocument,
		AttachedManagedPolicies:  []api.PolicyRef{},
		RolePolicyList:           []api.InlinePolicy{},
		Tags:                     []api.Tag{},
	}
	for _, ref := range r.AttachedManagedPolicies {
		role.AttachedManagedPolicies = append(role.AttachedManagedPolicies, MapPolicyRefDomainToApi(ref))
	}
	for _, p := range r.RolePolicyList {
		role.RolePolicyList = append(role.RolePolicyList, MapInlinePolicyDomainToApi(p))
	}
	for _, tag := range r.Tags {
		role.Tags = append(role.Tags, api.Tag{Key: tag.Key, Value: tag.Value})
	}
	return role
}

func MapGroupApiToDomain(g api.Group) domain.Group {
	group := domain.Group{
		GroupID:    g.GroupID,
		GroupName:  g.GroupName,
		Arn:        g.Arn,
		CreateDate: g.CreateDate,
	}
	for _, ref := range g.AttachedManagedPolicies {
		group.AttachedManagedPolicies = append(group.AttachedManagedPolicies, MapPolicyRefApiToDomain(ref))
	}
	for _, p := range g.GroupPolicyList {
		group.GroupPolicyList = append(group.GroupPolicyList, MapInlinePolicyApiToDomain(p))
	}
	return group
}

func MapGroupDomainToApi(g domain.Group) api.Group {
	group := api.Group{
		GroupID:                 g.GroupID,
		GroupName:               g.GroupName,
		Arn:                     g.Arn,
		CreateDate:              g.CreateDate,
		AttachedManagedPolicies: []api.PolicyRef{},
		GroupPolicyList:         []api.InlinePolicy{},
	}
	for _, ref := range g.AttachedManagedPolicies {
		group.AttachedManagedPolicies = append(group.AttachedManagedPolicies, MapPolicyRefDomainToApi(ref))
	}
	for _, p := range g.GroupPolicyList {
		group.GroupPolicyList = append(group.GroupPolicyList, MapInlinePolicyDomainToApi(p))
	}
	return group
}

func MapPolicyApiToDomain(p api.Policy) domain.Policy {
	policy := domain.Policy{
		PolicyID:         p.PolicyID,
		PolicyName:       p.PolicyName,
		Arn:              p.Arn,
		CreateDate:       p.CreateDate,
		DefaultVersionID: p.DefaultVersionID,
		AttachmentCount:  p.AttachmentCount,
		IsAttachable:     p.IsAttachable,
		Description:      p.Description,
	}
	for _, v := range p.PolicyVersionList {
		policy.Versions = append(policy.Versions, domain.PolicyVersion{
			VersionID: v.VersionID,
			Document:  v.Document,
			IsDefault: v.IsDefaultVersion,
		})
	}
	return policy
}

func MapPolicyDomainToApi(p domain.Policy) api.Policy {
	policy := api.Policy{
		PolicyID:          p.PolicyID,
		PolicyName:        p.PolicyName,
		Arn:               p.Arn,
		CreateDate:        p.CreateDate,
		DefaultVersionID:  p.DefaultVersionID,
		PolicyVersionList: []api.PolicyVersion{},
		AttachmentCount:   p.AttachmentCount,
		IsAttachable:      p.IsAttachable,
		Description:       p.Description,
	}
	for _, v := range p.Versions {
		policy.PolicyVersionList = append(policy.PolicyVersionList, api.PolicyVersion{
			VersionID:        v.VersionID,
			Document:         v.Document,
			IsDefaultVersion: v.IsDefault,
		})
	}
	return policy
}

func MapAccountDataApiToDomain(data api.AccountData) domain.Account {
	account := domain.Account{
		Users:    make(map[string]domain.User, len(data.Users)),
		Roles:    make(map[string]domain.Role, len(data.Roles)),
		Policies: make(map[string]domain.Policy, len(data.Policies)),
		Groups:   make(map[string]domain.Group, len(data.Groups)),
	}
	for id, u := range data.Users {
		account.Users[id] = MapUserApiToDomain(u)
	}
	for id, r := range data.Roles {
		account.Roles[id] = MapRoleApiToDomain(r)
	}
	for id, p := range data.Policies {
		account.Policies[id] = MapPolicyApiToDomain(p)
	}
	for id, g := range data.Groups {
		account.Groups[id] = MapGroupApiToDomain(g)
	}
	return account
}

func MapAccountDomainToApi(account domain.Account) api.AccountData {
	data := api.AccountData{
		Users:    make(map[string]api.User, len(account.Users)),
		Roles:    make(map[string]api.Role, len(account.Roles)),
		Policies: make(map[string]api.Policy, len(account.Policies)),
		Groups:   make(map[string]api.Group, len(account.Groups)),
	}
	for id, u := range account.Users {
		data.Users[id] = MapUserDomainToApi(u)
	}
	for id, r := range account.Roles {
		data.Roles[id] = MapRoleDomainToApi(r)
	}
	for id, p := range account.Policies {
		data.Policies[id] = MapPolicyDomainToApi(p)
	}
	for id, g := range account.Groups {
		data.Groups[id] = MapGroupDomainToApi(g)
	}
	return data
}
