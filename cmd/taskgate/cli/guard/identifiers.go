package guard

import "strings"

// genericSegments are path segments that never identify a project: user-home
// boilerplate, repo-layout conventions, deployment environments.
var genericSegments = map[string]struct{}{
	"users": {}, "home": {}, "workspace": {}, "workspaces": {},
	"projects": {}, "repos": {}, "src": {}, "lib": {}, "app": {}, "apps": {},
	"packages": {}, "platform": {}, "service": {}, "services": {}, "web": {},
	"api": {}, "server": {}, "client": {}, "frontend": {}, "backend": {},
	"dev": {}, "development": {}, "prod": {}, "staging": {}, "tmp": {},
	"temp": {}, "var": {}, "opt": {}, "usr": {}, "volumes": {},
}

// minSegmentLen filters out segments too short to carry a project name.
const minSegmentLen = 3

// rootSegmentCutoff is the number of leading path segments presumed to be
// OS/user-home boilerplate (e.g. /Users/<name>) and never considered.
const rootSegmentCutoff = 2

// ProjectIdentifiers derives candidate project names from a working-directory
// path, highest priority (closest to the leaf) first. Original casing is
// preserved; callers match case-insensitively.
//
// A segment is also dropped when an identifier collected before it (i.e. one
// closer to the leaf) starts with the segment plus "-": an org or monorepo
// prefix like "hasnastudio" adds nothing once "hasnastudio-alumia" is already
// a candidate.
//
// Returns an empty slice when every segment is filtered out.
func ProjectIdentifiers(cwd string) []string {
	segments := splitPath(cwd)

	var identifiers []string
	for i := len(segments) - 1; i >= 0; i-- {
		seg := segments[i]
		if i <= rootSegmentCutoff {
			break
		}
		if len(seg) < minSegmentLen {
			continue
		}
		lower := strings.ToLower(seg)
		if _, generic := genericSegments[lower]; generic {
			continue
		}
		if redundantPrefix(identifiers, lower) {
			continue
		}
		identifiers = append(identifiers, seg)
	}
	return identifiers
}

func splitPath(p string) []string {
	var segments []string
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

func redundantPrefix(identifiers []string, lowerSeg string) bool {
	for _, id := range identifiers {
		if strings.HasPrefix(strings.ToLower(id), lowerSeg+"-") {
			return true
		}
	}
	return false
}
