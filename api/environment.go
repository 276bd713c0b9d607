package api

import (
	"fmt"
	"strings"
)

// Product identifies a Revolut API product line.
type Product int

const (
	ProductBusiness Product = iota + 1
	ProductMerchant
	ProductOpenBanking
)

func (p Product) String() string {
	switch p {
	case ProductBusiness:
		return "business"
	case ProductMerchant:
		return "merchant"
	case ProductOpenBanking:
		return "open_banking"
	default:
		return "unknown"
	}
}

// Stage is the deployment target of an environment.
type Stage int

const (
	Sandbox Stage = iota + 1
	Production
)

func (s Stage) String() string {
	switch s {
	case Sandbox:
		return "sandbox"
	case Production:
		return "production"
	default:
		return "unknown"
	}
}

// Endpoint is a fully-qualified Revolut API URL.
type Endpoint string

func (e Endpoint) String() string { return string(e) }

// Capability names an endpoint group that is not available in every environment.
type Capability string

const (
	CapabilityCards        Capability = "cards"
	CapabilityExpenses     Capability = "expenses"
	CapabilityTeamMembers  Capability = "team_members"
	CapabilitySimulations  Capability = "simulations"
	CapabilityDisputes     Capability = "disputes"
	CapabilityApplePay     Capability = "apple_pay"
	CapabilityFastCheckout Capability = "fast_checkout" // synchronous webhooks
)

// Hosts are fixed per product and stage.
var baseURLs = map[Product]map[Stage]string{
	ProductBusiness: {
		Sandbox:    "https://sandbox-b2b.revolut.com/api",
		Production: "https://b2b.revolut.com/api",
	},
	ProductMerchant: {
		Sandbox:    "https://sandbox-merchant.revolut.com/api",
		Production: "https://merchant.revolut.com/api",
	},
	ProductOpenBanking: {
		Sandbox:    "https://sandbox-oba.revolut.com",
		Production: "https://oba.revolut.com",
	},
}

// capabilities lists the gated endpoint groups each environment exposes.
// Endpoint groups that are not gated are available everywhere.
var capabilities = map[Product]map[Stage][]Capability{
	ProductBusiness: {
		Sandbox:    {CapabilitySimulations},
		Production: {CapabilityCards, CapabilityExpenses, CapabilityTeamMembers},
	},
	ProductMerchant: {
		Production: {CapabilityDisputes, CapabilityApplePay, CapabilityFastCheckout},
	},
}

// Environment is a product/stage pair. The zero value is not a valid environment;
// use SandboxEnvironment or ProductionEnvironment.
type Environment struct {
	product Product
	stage   Stage
}

// SandboxEnvironment returns the sandbox environment for a product.
func SandboxEnvironment(p Product) Environment {
	return Environment{product: p, stage: Sandbox}
}

// ProductionEnvironment returns the production environment for a product.
func ProductionEnvironment(p Product) Environment {
	return Environment{product: p, stage: Production}
}

func (e Environment) Product() Product { return e.product }
func (e Environment) Stage() Stage     { return e.stage }
func (e Environment) IsSandbox() bool  { return e.stage == Sandbox }

// IsZero reports whether no environment has been selected.
func (e Environment) IsZero() bool { return e.product == 0 || e.stage == 0 }

func (e Environment) String() string {
	return fmt.Sprintf("%s/%s", e.product, e.stage)
}

func (e Environment) base() string {
	return baseURLs[e.product][e.stage]
}

// URI renders base + "/" + version + path.
func (e Environment) URI(version, path string) Endpoint {
	path = normalizePath(path)
	if e.product == ProductBusiness {
		return Endpoint(e.base() + "/" + version + path)
	}
	return e.UnversionedURI("/" + version + path)
}

// UnversionedURI renders base + path. Business endpoints are always versioned,
// so calling this on a Business environment panics.
func (e Environment) UnversionedURI(path string) Endpoint {
	if e.product == ProductBusiness {
		panic("api: business endpoints are always versioned; use URI")
	}
	return Endpoint(e.base() + normalizePath(path))
}

// Supports reports whether the environment exposes the capability.
func (e Environment) Supports(c Capability) bool {
	for _, have := range capabilities[e.product][e.stage] {
		if have == c {
			return true
		}
	}
	return false
}

// Require returns a GenericError wrapping ErrUnsupportedEnvironment when the
// environment does not expose the capability.
func (e Environment) Require(c Capability) error {
	if e.Supports(c) {
		return nil
	}
	return &ClientError{
		Kind:   GenericError,
		Detail: fmt.Sprintf("%s API is not available in the %s environment", c, e),
		Err:    ErrUnsupportedEnvironment,
	}
}

func normalizePath(path string) string {
	if path != "" && !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "?") {
		return "/" + path
	}
	return path
}
