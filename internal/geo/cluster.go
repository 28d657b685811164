package geo

// Cluster partitions sites into transitive proximity clusters: every member
// of a cluster is within thresholdMeters of at least one other member. This
// is deliberately not a pairwise threshold against the seed — a chain of
// nearby points can pull in a site far from the seed but close to an
// intermediate member.
//
// Unlocated sites each form a singleton cluster: two records cannot be
// judged the same place without location evidence.
//
// Greedy growth is quadratic per call; callers partition the record set
// into small groups (by domain or name) before clustering, which keeps the
// group sizes trivial in practice.
func Cluster(sites []Site, thresholdMeters float64) [][]string {
	var located []Site
	var singles []string
	for _, s := range sites {
		if s.Located {
			located = append(located, s)
		} else {
			singles = append(singles, s.ID)
		}
	}

	used := make([]bool, len(located))
	var clusters [][]string

	for i := range located {
		if used[i] {
			continue
		}
		used[i] = true
		members := []int{i}

		// Grow until a full scan adds nothing: each new member can pull
		// in sites that were too far from everything seen before it.
		for changed := true; changed; {
			changed = false
			for j := range located {
				if used[j] {
					continue
				}
				for _, m := range members {
					if Haversine(located[j].Coord, located[m].Coord) <= thresholdMeters {
						used[j] = true
						members = append(members, j)
						changed = true
						break
					}
				}
			}
		}

		ids := make([]string, len(members))
		for k, m := range members {
			ids[k] = located[m].ID
		}
		clusters = append(clusters, ids)
	}

	for _, id := range singles {
		clusters = append(clusters, []string{id})
	}

	return clusters
}
