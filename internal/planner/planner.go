// Package planner generates the waterfall of search queries for a hunt.
// Tiers are ordered from most-specific (fingerprint-anchored) to
// most-general (bare project name). All tiers are issued on every run and
// merged downstream; the ordering only decides which results are seen
// first when deduplicating.
package planner

import (
	"fmt"

	"github.com/Yy2z/crypto-hunter/internal/model"
)

const (
	// industryContext forces a crypto interpretation of ambiguous names.
	// Without it, a project called "Fogo" surfaces steakhouses.
	industryContext = `crypto OR blockchain OR web3 OR exchange OR token`

	// negativeFilter excludes food-service results at the query level for
	// the broader tiers. Narrow fingerprint-anchored tiers don't need it.
	negativeFilter = `-restaurant -steakhouse -chef -menu -food -dining -recipe`

	vcRoles      = `Partner OR Investor`
	defaultRoles = `Founder OR CEO OR CMO OR "Head of Listing" OR "Head of BD"`
)

// Plan returns the ordered query list for a project. With both fingerprints
// present it emits 6 queries (2 handle-anchored, 1 domain-anchored, 2
// name+industry, 1 fallback); with none it emits the 3 unconditional ones.
func Plan(projectName string, category model.Category, fps model.Fingerprints) []string {
	queries := make([]string, 0, 6)

	roles := defaultRoles
	if category == model.CategoryVC {
		roles = vcRoles
	}

	// Tier 1: handle-anchored. Crypto people tend to put their project's
	// handle in their profile text ("Founder @Weex_Official"), so a literal
	// match on it is the highest-precision signal available.
	if fps.HasHandle() {
		queries = append(queries,
			fmt.Sprintf(`site:linkedin.com "@%s"`, fps.Handle),
			fmt.Sprintf(`site:linkedin.com "%s"`, fps.Handle),
		)
	}

	// Tier 1b: domain-anchored.
	if fps.HasDomain() {
		queries = append(queries,
			fmt.Sprintf(`site:linkedin.com "%s" %s`, fps.Domain, roles),
		)
	}

	// Tier 2: project name + industry context. Personal profiles get the
	// role clause and the negative filter; company pages get neither.
	queries = append(queries,
		fmt.Sprintf(`site:linkedin.com/in/ "%s" %s %s %s`, projectName, industryContext, roles, negativeFilter),
		fmt.Sprintf(`site:linkedin.com/company/ "%s" %s`, projectName, industryContext),
	)

	// Tier 3: unrestricted fallback, trading precision for recall.
	queries = append(queries,
		fmt.Sprintf(`"%s" %s team listing contact %s`, projectName, industryContext, negativeFilter),
	)

	return queries
}
