package actions

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/grovetools/seedee/command"
	"github.com/grovetools/seedee/errors"
	"github.com/grovetools/seedee/taskexec"
	"github.com/moby/patternmatcher"
	"github.com/spf13/afero"
)

// maxDepth covers App.xcodeproj/xcshareddata/xcschemes/App.xcscheme.
const maxDepth = 4

var (
	projectPatterns   = []string{"*.xcodeproj"}
	workspacePatterns = []string{"*.xcworkspace"}
	schemePatterns    = []string{
		"*.xcodeproj/xcshareddata/xcschemes/*.xcscheme",
		"*.xcworkspace/xcshareddata/xcschemes/*.xcscheme",
	}
	skipPatterns = []string{
		".git",
		"**/Pods",
		"**/Carthage",
		"**/DerivedData",
		"**/.build",
		"**/node_modules",
	}
)

// Project is what Discover found in a directory.
type Project struct {
	Dir         string
	Projects    []string
	Workspaces  []string
	Schemes     []string
	UsesBundler bool
}

// Ref picks the workspace (CocoaPods projects must be built through it) or
// else the first project, and the given scheme or else the first shared one.
func (p *Project) Ref(scheme string) ProjectRef {
	ref := ProjectRef{Scheme: scheme}
	switch {
	case len(p.Workspaces) > 0:
		ref.Workspace = p.Workspaces[0]
	case len(p.Projects) > 0:
		ref.Project = p.Projects[0]
	}
	if ref.Scheme == "" && len(p.Schemes) > 0 {
		ref.Scheme = p.Schemes[0]
	}
	return ref
}

// Tool returns the command that runs a Ruby tool, through bundler when the
// project has a Gemfile.
func (p *Project) Tool(name string) command.Builder {
	if p.UsesBundler {
		return command.New("bundle", "exec", name)
	}
	return command.New(name)
}

type matchers struct {
	project, workspace, scheme, skip *patternmatcher.PatternMatcher
}

func newMatchers() (*matchers, error) {
	var m matchers
	var err error
	if m.project, err = patternmatcher.New(projectPatterns); err != nil {
		return nil, err
	}
	if m.workspace, err = patternmatcher.New(workspacePatterns); err != nil {
		return nil, err
	}
	if m.scheme, err = patternmatcher.New(schemePatterns); err != nil {
		return nil, err
	}
	if m.skip, err = patternmatcher.New(skipPatterns); err != nil {
		return nil, err
	}
	return &m, nil
}

// Discover looks for Xcode projects, workspaces and shared schemes at the top
// of dir. Paths are relative to dir.
func Discover(ctx context.Context, fs afero.Fs, dir string) (*Project, error) {
	m, err := newMatchers()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "invalid discovery patterns")
	}

	found := &Project{Dir: dir}
	walkErr := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil || rel == "." {
			return nil
		}
		depth := strings.Count(rel, string(filepath.Separator)) + 1

		if info.IsDir() {
			if depth > maxDepth {
				return filepath.SkipDir
			}
			if skip, _ := m.skip.MatchesOrParentMatches(rel); skip {
				return filepath.SkipDir
			}
			if depth == 1 {
				if ok, _ := m.project.MatchesOrParentMatches(rel); ok {
					found.Projects = append(found.Projects, rel)
				}
				if ok, _ := m.workspace.MatchesOrParentMatches(rel); ok {
					found.Workspaces = append(found.Workspaces, rel)
				}
			}
			return nil
		}

		if depth == 1 && info.Name() == "Gemfile" {
			found.UsesBundler = true
		}
		if depth == maxDepth {
			if ok, _ := m.scheme.MatchesOrParentMatches(rel); ok {
				found.Schemes = appendUnique(found.Schemes, strings.TrimSuffix(info.Name(), ".xcscheme"))
			}
		}
		return nil
	})
	if walkErr != nil {
		return nil, errors.FileOperation("scan", dir, walkErr)
	}

	sort.Strings(found.Projects)
	sort.Strings(found.Workspaces)
	sort.Strings(found.Schemes)

	log := taskexec.Logger(ctx).WithField("dir", dir)
	if len(found.Projects) > 1 {
		log.WithField("projects", found.Projects).Warn("Multiple Xcode projects are detected")
	}
	log.WithField("projects", found.Projects).
		WithField("workspaces", found.Workspaces).
		WithField("schemes", found.Schemes).
		Debug("Discovered Xcode project")
	return found, nil
}

func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
