package dedupe

import (
	"sort"

	"go.uber.org/zap"

	"github.com/karo-care/directory-cli/internal/geo"
	"github.com/karo-care/directory-cli/internal/model"
)

// Dedup pass names, recorded on each removed record for the audit trail.
const (
	PassFuzzy  = "fuzzy_name"
	PassDomain = "domain"
	PassName   = "name"
)

// Removal records which surviving record a duplicate was folded into and
// which pass made the call.
type Removal struct {
	Into string
	Pass string
}

// Result partitions the input ids: every id is either in Kept or a key of
// Removed, never both.
type Result struct {
	Kept    []string
	Removed map[string]Removal
}

// Config tunes the resolver.
type Config struct {
	// DistanceMeters is the proximity threshold under which two listings
	// may be judged the same place.
	DistanceMeters float64

	// FuzzySimilarity is the minimum normalized name similarity for the
	// fuzzy pre-pass.
	FuzzySimilarity float64
}

// Resolver keeps exactly one representative per duplicate cluster. Passes
// run in order: fuzzy name pre-pass, then exact domain keys, then exact
// normalized-name keys. Each pass only sees the survivors of the previous
// one, and every pass is scoped to a single city.
type Resolver struct {
	cfg Config
}

// New builds a resolver.
func New(cfg Config) *Resolver {
	if cfg.DistanceMeters <= 0 {
		cfg.DistanceMeters = 200
	}
	if cfg.FuzzySimilarity <= 0 {
		cfg.FuzzySimilarity = 0.85
	}
	return &Resolver{cfg: cfg}
}

// Resolve deduplicates the given records. Callers pass only records with an
// active category; "Other" records are never merge candidates.
func (rs *Resolver) Resolve(records []model.Record) Result {
	res := Result{Removed: make(map[string]Removal)}

	byID := make(map[string]model.Record, len(records))
	order := make([]string, 0, len(records))
	for _, r := range records {
		byID[r.ID] = r
		order = append(order, r.ID)
	}
	sort.Strings(order)

	alive := make(map[string]bool, len(order))
	for _, id := range order {
		alive[id] = true
	}

	rs.fuzzyPass(order, byID, alive, &res)
	rs.keyPass(order, byID, alive, &res, PassDomain, func(r model.Record) string {
		return r.Domain()
	})
	rs.keyPass(order, byID, alive, &res, PassName, func(r model.Record) string {
		return r.NormalizedName()
	})

	for _, id := range order {
		if alive[id] {
			res.Kept = append(res.Kept, id)
		}
	}

	zap.L().Info("dedup resolved",
		zap.Int("input", len(records)),
		zap.Int("kept", len(res.Kept)),
		zap.Int("removed", len(res.Removed)),
	)
	return res
}

// fuzzyPass folds near-identical names at near-identical coordinates, per
// city. Best-scored records are considered first so a weaker listing always
// folds into a stronger one. Records without coordinates are skipped: name
// similarity alone is not enough evidence of sameness.
func (rs *Resolver) fuzzyPass(order []string, byID map[string]model.Record, alive map[string]bool, res *Result) {
	byCity := make(map[string][]string)
	for _, id := range order {
		r := byID[id]
		if !r.HasCoordinates() {
			continue
		}
		city := r.ResolvedCity()
		byCity[city] = append(byCity[city], id)
	}

	for _, ids := range byCity {
		ranked := rankByScore(ids, byID)
		var kept []string
		for _, id := range ranked {
			r := byID[id]
			folded := false
			for _, keptID := range kept {
				k := byID[keptID]
				if Ratio(r.NormalizedName(), k.NormalizedName()) <= rs.cfg.FuzzySimilarity {
					continue
				}
				if geo.Haversine(geo.SiteOf(r).Coord, geo.SiteOf(k).Coord) >= rs.cfg.DistanceMeters {
					continue
				}
				alive[id] = false
				res.Removed[id] = Removal{Into: keptID, Pass: PassFuzzy}
				folded = true
				break
			}
			if !folded {
				kept = append(kept, id)
			}
		}
	}
}

// keyPass groups survivors by (key, city), proximity-clusters each group,
// and keeps the best-scored record per cluster. Empty keys never group.
func (rs *Resolver) keyPass(order []string, byID map[string]model.Record, alive map[string]bool, res *Result, pass string, key func(model.Record) string) {
	groups := make(map[[2]string][]string)
	for _, id := range order {
		if !alive[id] {
			continue
		}
		r := byID[id]
		k := key(r)
		if k == "" {
			continue
		}
		groups[[2]string{k, r.ResolvedCity()}] = append(groups[[2]string{k, r.ResolvedCity()}], id)
	}

	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		sites := make([]geo.Site, 0, len(ids))
		for _, id := range ids {
			sites = append(sites, geo.SiteOf(byID[id]))
		}
		for _, cluster := range geo.Cluster(sites, rs.cfg.DistanceMeters) {
			if len(cluster) < 2 {
				continue
			}
			ranked := rankByScore(cluster, byID)
			winner := ranked[0]
			for _, id := range ranked[1:] {
				alive[id] = false
				res.Removed[id] = Removal{Into: winner, Pass: pass}
			}
		}
	}
}

// rankByScore orders ids best-first by (review count, rating), both
// descending. Missing values sort last; id order breaks exact ties so the
// outcome is deterministic.
func rankByScore(ids []string, byID map[string]model.Record) []string {
	ranked := append([]string(nil), ids...)
	sort.Slice(ranked, func(i, j int) bool {
		a, b := byID[ranked[i]], byID[ranked[j]]
		ar, br := scoreOf(a.ReviewCount), scoreOf(b.ReviewCount)
		if ar != br {
			return ar > br
		}
		af, bf := ratingOf(a.Rating), ratingOf(b.Rating)
		if af != bf {
			return af > bf
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

func scoreOf(n *int) int {
	if n == nil {
		return -1
	}
	return *n
}

func ratingOf(f *float64) float64 {
	if f == nil {
		return -1
	}
	return *f
}
