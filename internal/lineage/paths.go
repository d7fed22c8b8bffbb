package lineage

import (
	"sort"
)

// route is one enumerated path together with the dogs it passes through.
// trail excludes the root and ends with the terminal ancestor.
type route struct {
	path  Path
	trail []string
}

func (r route) terminal() string {
	return r.trail[len(r.trail)-1]
}

// ancestorRoutes groups every route that ends at one ancestor.
type ancestorRoutes struct {
	id     string
	routes []route
}

// enumerateRoutes walks the index depth-first from the root, sire before dam,
// and returns every root-to-ancestor route no longer than the index depth.
func enumerateRoutes(idx *Index) []route {
	root, ok := idx.records[idx.rootID]
	if !ok {
		return nil
	}

	var routes []route
	var steps Path
	var trail []string

	var visit func(rec *AncestorRecord, depth int)
	visit = func(rec *AncestorRecord, depth int) {
		if depth >= idx.generations {
			return
		}
		for _, link := range []struct {
			step Step
			id   string
		}{
			{StepSire, rec.SireID},
			{StepDam, rec.DamID},
		} {
			if link.id == "" {
				continue
			}
			parent, ok := idx.records[link.id]
			if !ok {
				continue
			}

			steps = append(steps, link.step)
			trail = append(trail, link.id)

			t := make([]string, len(trail))
			copy(t, trail)
			routes = append(routes, route{path: steps.clone(), trail: t})

			visit(parent, depth+1)

			steps = steps[:len(steps)-1]
			trail = trail[:len(trail)-1]
		}
	}

	visit(root, 0)
	return routes
}

// groupRoutes groups routes by terminal ancestor, keeping first-seen order.
func groupRoutes(routes []route) []ancestorRoutes {
	pos := make(map[string]int)
	var groups []ancestorRoutes

	for _, r := range routes {
		id := r.terminal()
		i, ok := pos[id]
		if !ok {
			i = len(groups)
			pos[id] = i
			groups = append(groups, ancestorRoutes{id: id})
		}
		groups[i].routes = append(groups[i].routes, r)
	}

	return groups
}

// splitSides separates routes through the sire from routes through the dam.
func splitSides(routes []route) (sireSide, damSide []route) {
	for _, r := range routes {
		switch r.path.Side() {
		case StepSire:
			sireSide = append(sireSide, r)
		case StepDam:
			damSide = append(damSide, r)
		}
	}
	return sireSide, damSide
}

// FindCommonAncestors returns every dog reached from the root of idx by two
// or more paths, sorted by genetic contribution, highest first. Ties keep the
// order in which the ancestors were first reached.
func FindCommonAncestors(idx *Index) []CommonAncestor {
	return collectCommon(idx, func(g ancestorRoutes) bool {
		return len(g.routes) >= 2
	})
}

// findSharedAncestors returns the dogs that appear on both the sire side and
// the dam side of the root, with every path to each.
func findSharedAncestors(idx *Index) []CommonAncestor {
	return collectCommon(idx, func(g ancestorRoutes) bool {
		sireSide, damSide := splitSides(g.routes)
		return len(sireSide) > 0 && len(damSide) > 0
	})
}

func collectCommon(idx *Index, keep func(ancestorRoutes) bool) []CommonAncestor {
	var common []CommonAncestor

	for _, g := range groupRoutes(enumerateRoutes(idx)) {
		if !keep(g) {
			continue
		}
		rec := idx.records[g.id]

		pathways := make([]Path, len(g.routes))
		for i, r := range g.routes {
			pathways[i] = r.path
		}

		common = append(common, CommonAncestor{
			Dog:                 *rec,
			Occurrences:         len(pathways),
			Pathways:            pathways,
			GeneticContribution: CalculateGeneticInfluence(pathways),
		})
	}

	sort.SliceStable(common, func(i, j int) bool {
		return common[i].GeneticContribution > common[j].GeneticContribution
	})

	if common == nil {
		return []CommonAncestor{}
	}
	return common
}
