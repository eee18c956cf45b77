package analysis

import (
	"regexp"

	"github.com/de-tools/iam-atlas/pkg/models/domain"
)

// matcher is the match predicate of one detection rule. There is exactly one
// implementation per match kind, each carrying only the data it needs, so rule
// evaluation stays a single data-driven loop over the catalog.
type matcher interface {
	matches(s statement) bool
}

// anyAction fires when the statement grants at least one of the listed actions.
type anyAction []string

func (m anyAction) matches(s statement) bool {
	for _, a := range m {
		if s.actions[a] {
			return true
		}
	}
	return false
}

// allActions fires only when every listed action co-occurs in the same statement.
type allActions []string

func (m allActions) matches(s statement) bool {
	for _, a := range m {
		if !s.actions[a] {
			return false
		}
	}
	return true
}

// actionPattern fires when any granted action matches the expression.
type actionPattern struct {
	re *regexp.Regexp
}

func (m actionPattern) matches(s statement) bool {
	for _, a := range s.actionList {
		if m.re.MatchString(a) {
			return true
		}
	}
	return false
}

// resourceWildcard fires when the statement's resource list contains "*".
type resourceWildcard struct{}

func (resourceWildcard) matches(s statement) bool {
	for _, r := range s.resources {
		if r == "*" {
			return true
		}
	}
	return false
}

// Rule is one immutable detection rule from the catalog.
type Rule struct {
	Key            string
	Severity       domain.Severity
	Title          string
	Description    string
	Recommendation string
	match          matcher
}

// Catalog is the fixed table of detection rules. Rules are independent of each
// other and intentionally overlap (a statement granting iam:PassRole and
// ec2:RunInstances fires both passrole-any and passrole-ec2); evaluation order
// is the table order below and only affects output ordering.
var Catalog = []Rule{
	{
		Key:            "wildcard-permission",
		Severity:       domain.SeverityHigh,
		Title:          "Full wildcard permission",
		Description:    "A statement allows the action \"*\", granting every API action on every AWS service.",
		Recommendation: "Replace the wildcard with the explicit set of actions the workload needs.",
		match:          actionPattern{re: regexp.MustCompile(`^\*$`)},
	},
	{
		Key:            "wildcard-iam",
		Severity:       domain.SeverityHigh,
		Title:          "Full IAM access",
		Description:    "A statement allows \"iam:*\", which includes every identity management operation and makes privilege escalation trivial.",
		Recommendation: "Scope IAM permissions to the specific read or write operations required.",
		match:          actionPattern{re: regexp.MustCompile(`^iam:\*$`)},
	},
	{
		Key:            "wildcard-resource",
		Severity:       domain.SeverityHigh,
		Title:          "Wildcard resource",
		Description:    "A statement applies its allowed actions to every resource (\"*\") instead of specific ARNs.",
		Recommendation: "Restrict the Resource element to the ARNs the policy is meant to cover.",
		match:          resourceWildcard{},
	},
	{
		Key:            "create-policy-version",
		Severity:       domain.SeverityHigh,
		Title:          "Policy version creation",
		Description:    "iam:CreatePolicyVersion lets a principal write a new version of an existing managed policy and activate it, rewriting their own permissions.",
		Recommendation: "Reserve policy authoring permissions for a dedicated administration role.",
		match:          anyAction{"iam:CreatePolicyVersion"},
	},
	{
		Key:            "policy-version-manipulation",
		Severity:       domain.SeverityHigh,
		Title:          "Policy version manipulation",
		Description:    "The statement can create or re-activate managed policy versions, allowing a dormant permissive version to be switched back on.",
		Recommendation: "Remove iam:CreatePolicyVersion and iam:SetDefaultPolicyVersion from workload policies.",
		match:          anyAction{"iam:CreatePolicyVersion", "iam:SetDefaultPolicyVersion"},
	},
	{
		Key:            "passrole-any",
		Severity:       domain.SeverityHigh,
		Title:          "Unrestricted PassRole",
		Description:    "iam:PassRole allows handing a role to an AWS service; combined with almost any create permission it lets a principal run code as a more privileged role.",
		Recommendation: "Constrain iam:PassRole to specific role ARNs and add an iam:PassedToService condition.",
		match:          anyAction{"iam:PassRole"},
	},
	{
		Key:            "passrole-ec2",
		Severity:       domain.SeverityHigh,
		Title:          "PassRole with EC2 launch",
		Description:    "iam:PassRole together with ec2:RunInstances lets a principal launch an instance with any passable role and harvest its credentials from the instance profile.",
		Recommendation: "Split instance launching and role passing across separate principals, or pin PassRole to the intended instance role.",
		match:          allActions{"iam:PassRole", "ec2:RunInstances"},
	},
	{
		Key:            "access-key-creation",
		Severity:       domain.SeverityHigh,
		Title:          "Access key creation",
		Description:    "iam:CreateAccessKey permits minting long-lived credentials for other users, including more privileged ones.",
		Recommendation: "Allow access key creation only on the caller's own user via a resource condition.",
		match:          anyAction{"iam:CreateAccessKey"},
	},
	{
		Key:            "login-profile-manipulation",
		Severity:       domain.SeverityHigh,
		Title:          "Login profile manipulation",
		Description:    "Creating or updating login profiles lets a principal set console passwords for other users and sign in as them.",
		Recommendation: "Remove iam:CreateLoginProfile and iam:UpdateLoginProfile, or scope them to the caller's own user.",
		match:          anyAction{"iam:CreateLoginProfile", "iam:UpdateLoginProfile"},
	},
	{
		Key:            "policy-attachment",
		Severity:       domain.SeverityHigh,
		Title:          "Managed policy attachment",
		Description:    "The statement can attach arbitrary managed policies (including AdministratorAccess) to users, groups, or roles.",
		Recommendation: "Restrict attachment permissions with an iam:PolicyARN condition listing approved policies.",
		match:          anyAction{"iam:AttachUserPolicy", "iam:AttachGroupPolicy", "iam:AttachRolePolicy"},
	},
	{
		Key:            "inline-policy-manipulation",
		Severity:       domain.SeverityHigh,
		Title:          "Inline policy manipulation",
		Description:    "The statement can write inline policies onto users, groups, or roles, granting arbitrary permissions to any principal it can reach.",
		Recommendation: "Remove iam:Put*Policy from workload policies; manage inline policies through infrastructure tooling only.",
		match:          anyAction{"iam:PutUserPolicy", "iam:PutGroupPolicy", "iam:PutRolePolicy"},
	},
	{
		Key:            "group-membership",
		Severity:       domain.SeverityMedium,
		Title:          "Group membership control",
		Description:    "iam:AddUserToGroup lets a principal join users (including itself) to groups that may carry broader permissions.",
		Recommendation: "Limit group membership changes to specific group ARNs.",
		match:          anyAction{"iam:AddUserToGroup"},
	},
	{
		Key:            "assume-role-policy-update",
		Severity:       domain.SeverityHigh,
		Title:          "Trust policy rewrite",
		Description:    "iam:UpdateAssumeRolePolicy lets a principal rewrite who may assume a role, opening privileged roles to itself or external accounts.",
		Recommendation: "Restrict trust policy updates to a dedicated administration role.",
		match:          anyAction{"iam:UpdateAssumeRolePolicy"},
	},
	{
		Key:            "lambda-privilege-escalation",
		Severity:       domain.SeverityHigh,
		Title:          "Lambda privilege escalation",
		Description:    "PassRole plus lambda:CreateFunction and lambda:InvokeFunction lets a principal deploy and run code under any passable role.",
		Recommendation: "Pin iam:PassRole to the intended execution role and separate deploy from invoke permissions.",
		match:          allActions{"iam:PassRole", "lambda:CreateFunction", "lambda:InvokeFunction"},
	},
	{
		Key:            "lambda-event-source-manipulation",
		Severity:       domain.SeverityHigh,
		Title:          "Lambda event source escalation",
		Description:    "PassRole plus lambda:CreateFunction and lambda:CreateEventSourceMapping lets a principal deploy role-assuming code that triggers itself from a data source.",
		Recommendation: "Pin iam:PassRole to the intended execution role and review event source mapping permissions.",
		match:          allActions{"iam:PassRole", "lambda:CreateFunction", "lambda:CreateEventSourceMapping"},
	},
	{
		Key:            "lambda-code-update",
		Severity:       domain.SeverityMedium,
		Title:          "Lambda code update",
		Description:    "lambda:UpdateFunctionCode allows replacing the code of existing functions, which then runs under those functions' execution roles.",
		Recommendation: "Scope code updates to specific function ARNs owned by the caller.",
		match:          anyAction{"lambda:UpdateFunctionCode"},
	},
	{
		Key:            "glue-privilege-escalation",
		Severity:       domain.SeverityHigh,
		Title:          "Glue dev endpoint escalation",
		Description:    "PassRole plus glue:CreateDevEndpoint and glue:GetDevEndpoint lets a principal start a development endpoint with a privileged role and SSH into it.",
		Recommendation: "Remove Glue dev endpoint permissions from general-purpose policies.",
		match:          allActions{"iam:PassRole", "glue:CreateDevEndpoint", "glue:GetDevEndpoint"},
	},
	{
		Key:            "glue-endpoint-manipulation",
		Severity:       domain.SeverityMedium,
		Title:          "Glue dev endpoint manipulation",
		Description:    "Updating existing Glue dev endpoints can swap in an attacker-controlled SSH key and ride the endpoint's current role.",
		Recommendation: "Restrict glue:UpdateDevEndpoint to specific endpoint ARNs.",
		match:          allActions{"glue:UpdateDevEndpoint", "glue:GetDevEndpoint"},
	},
	{
		Key:            "cloudformation-privilege-escalation",
		Severity:       domain.SeverityHigh,
		Title:          "CloudFormation privilege escalation",
		Description:    "PassRole plus cloudformation:CreateStack and cloudformation:DescribeStacks lets a principal deploy a stack as a privileged service role and read back its outputs.",
		Recommendation: "Pin iam:PassRole to a least-privilege CloudFormation service role.",
		match:          allActions{"iam:PassRole", "cloudformation:CreateStack", "cloudformation:DescribeStacks"},
	},
	{
		Key:            "datapipeline-privilege-escalation",
		Severity:       domain.SeverityHigh,
		Title:          "Data Pipeline privilege escalation",
		Description:    "PassRole plus pipeline create, define, and activate permissions lets a principal schedule arbitrary commands under a passable role.",
		Recommendation: "Remove Data Pipeline permissions unless the workload genuinely schedules pipelines, and pin PassRole if it does.",
		match: allActions{
			"iam:PassRole",
			"datapipeline:CreatePipeline",
			"datapipeline:PutPipelineDefinition",
			"datapipeline:ActivatePipeline",
		},
	},
}
