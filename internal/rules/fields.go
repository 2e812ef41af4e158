// Package rules holds the declarative validation rule table.
//
// Configuration generations differ only in where a value lives and in a few
// per-generation constants (distribution ports, tool lists, defaults). Those
// differences are data: a Profile maps logical Fields to document paths, and a
// single ordered table of Rules reads Fields through the active Profile.
package rules

// Field is a logical configuration value, independent of its document path.
type Field string

const (
	FieldDistribution           Field = "distribution"
	FieldAgePublicKey           Field = "age_public_key"
	FieldTimezone               Field = "timezone"
	FieldDNSServers             Field = "dns_servers"
	FieldNTPServers             Field = "ntp_servers"
	FieldDualStack              Field = "dual_stack"
	FieldPodCIDR                Field = "pod_cidr"
	FieldServiceCIDR            Field = "service_cidr"
	FieldWebhookToken           Field = "webhook_token"
	FieldNodeCIDR               Field = "node_cidr"
	FieldAPIAddr                Field = "api_addr"
	FieldGatewayAddr            Field = "gateway_addr"
	FieldExternalIngressAddr    Field = "external_ingress_addr"
	FieldInternalIngressAddr    Field = "internal_ingress_addr"
	FieldLoadBalancerMode       Field = "loadbalancer_mode"
	FieldACMEEmail              Field = "acme_email"
	FieldACMEProduction         Field = "acme_production"
	FieldRepositoryUser         Field = "repository_user"
	FieldRepositoryName         Field = "repository_name"
	FieldRepositoryBranch       Field = "repository_branch"
	FieldRepositoryPrivate      Field = "repository_private"
	FieldCloudflareEnabled      Field = "cloudflare_enabled"
	FieldCloudflareDomain       Field = "cloudflare_domain"
	FieldCloudflareToken        Field = "cloudflare_token"
	FieldCloudflareAccountTag   Field = "cloudflare_account_tag"
	FieldCloudflareTunnelID     Field = "cloudflare_tunnel_id"
	FieldCloudflareTunnelSecret Field = "cloudflare_tunnel_secret"
	FieldCloudflareTunnelToken  Field = "cloudflare_tunnel_token"
	FieldSkipTests              Field = "skip_tests"
	FieldNodes                  Field = "nodes"
)

// Kind is the shape a field value is coerced to on extraction.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindStringList
	KindRaw
)

var fieldKinds = map[Field]Kind{
	FieldDNSServers:        KindStringList,
	FieldNTPServers:        KindStringList,
	FieldDualStack:         KindBool,
	FieldACMEProduction:    KindBool,
	FieldRepositoryPrivate: KindBool,
	FieldCloudflareEnabled: KindBool,
	FieldSkipTests:         KindBool,
	FieldNodes:             KindRaw,
}

// KindOf returns the declared kind of f. Unlisted fields are strings.
func KindOf(f Field) Kind {
	return fieldKinds[f]
}

// secretFields are never echoed in error messages.
var secretFields = map[Field]bool{
	FieldAgePublicKey:           true,
	FieldWebhookToken:           true,
	FieldCloudflareToken:        true,
	FieldCloudflareTunnelSecret: true,
	FieldCloudflareTunnelToken:  true,
}

// IsSecret reports whether values of f must be redacted.
func IsSecret(f Field) bool {
	return secretFields[f]
}
