// Package publish pushes rendered widget files to a GitHub Pages hosting
// repository and computes embed URLs and filename slots.
package publish

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/bettercollective/embedforge/pkg/github"
)

// Mode selects how the target filename is chosen.
type Mode string

const (
	// ModeReplace writes (or overwrites) a fixed filename.
	ModeReplace Mode = "replace"
	// ModeNewSlot allocates the next free prefix+N+extension name from the
	// repository's current root listing.
	ModeNewSlot Mode = "new-slot"
)

// Request describes one publish action.
type Request struct {
	Owner string
	Repo  string
	// Filename is the target for ModeReplace.
	Filename string
	// SlotPrefix and SlotExtension name the slot convention for ModeNewSlot.
	SlotPrefix    string
	SlotExtension string
	Mode          Mode
	Branch        string // defaults to "main"

	HTML    string
	Message string
}

// Outcome reports what a publish did, step by step. The publish sequence
// has no rollback: a failed step leaves earlier steps' effects in place
// (e.g. a freshly created repo with no widget yet).
type Outcome struct {
	Filename    string
	EmbedURL    string
	RepoCreated bool
	// PagesWarning carries a non-fatal Pages configuration problem the
	// operator may need to resolve in the repo settings.
	PagesWarning string
	// BuildRequested is false when the Pages build trigger failed; the
	// upload itself still succeeded.
	BuildRequested bool
}

// Publisher runs the ordered publish steps against the GitHub API.
type Publisher struct {
	gh github.Client
}

// NewPublisher creates a Publisher backed by the given GitHub client.
func NewPublisher(gh github.Client) *Publisher {
	return &Publisher{gh: gh}
}

// Publish ensures the hosting repo and Pages site exist, resolves the
// target filename, uploads the widget HTML, and requests a Pages build.
func (p *Publisher) Publish(ctx context.Context, req Request) (*Outcome, error) {
	if req.Owner == "" || req.Repo == "" {
		return nil, eris.New("publish: owner and repo are required")
	}
	if req.Branch == "" {
		req.Branch = "main"
	}

	out := &Outcome{BuildRequested: true}

	exists, err := p.gh.RepoExists(ctx, req.Owner, req.Repo)
	if err != nil {
		return nil, eris.Wrap(err, "publish: check repo")
	}
	if !exists {
		err := p.gh.CreateRepo(ctx, github.CreateRepoRequest{
			Name:        req.Repo,
			Description: "Embedded widget hosting (auto-created by embedforge).",
			AutoInit:    true,
		})
		if err != nil {
			return nil, eris.Wrap(err, "publish: create repo")
		}
		out.RepoCreated = true
		zap.L().Info("publish: created hosting repo",
			zap.String("owner", req.Owner),
			zap.String("repo", req.Repo),
		)
	}

	if err := p.ensurePages(ctx, req, out); err != nil {
		return nil, err
	}

	filename, err := p.resolveFilename(ctx, req)
	if err != nil {
		return nil, err
	}
	out.Filename = filename
	out.EmbedURL = PagesURL(req.Owner, req.Repo, filename)

	// Fetch the current blob SHA so an existing file is updated in place.
	sha, err := p.gh.FileSHA(ctx, req.Owner, req.Repo, filename, req.Branch)
	if err != nil {
		return nil, eris.Wrap(err, "publish: check existing file")
	}

	message := req.Message
	if message == "" {
		message = "Add/update " + filename
	}
	if err := p.gh.UploadFile(ctx, req.Owner, req.Repo, filename, []byte(req.HTML), message, sha); err != nil {
		return nil, eris.Wrap(err, "publish: upload file")
	}

	if err := p.gh.TriggerPagesBuild(ctx, req.Owner, req.Repo); err != nil {
		// The file is live; only the build kick failed.
		out.BuildRequested = false
		zap.L().Warn("publish: pages build trigger failed",
			zap.String("repo", req.Repo),
			zap.Error(err),
		)
	}

	zap.L().Info("publish: uploaded widget",
		zap.String("owner", req.Owner),
		zap.String("repo", req.Repo),
		zap.String("filename", filename),
		zap.String("embed_url", out.EmbedURL),
	)

	return out, nil
}

func (p *Publisher) ensurePages(ctx context.Context, req Request, out *Outcome) error {
	state, err := p.gh.CheckPages(ctx, req.Owner, req.Repo)
	if err != nil {
		return eris.Wrap(err, "publish: check pages")
	}
	switch state {
	case github.PagesEnabled:
		return nil
	case github.PagesForbidden:
		// Token lacks Pages permission; the site may need manual setup.
		out.PagesWarning = "token cannot manage Pages; configure Pages in the repo settings"
		return nil
	}

	if err := p.gh.EnablePages(ctx, req.Owner, req.Repo, req.Branch); err != nil {
		return eris.Wrap(err, "publish: enable pages")
	}
	return nil
}

func (p *Publisher) resolveFilename(ctx context.Context, req Request) (string, error) {
	switch req.Mode {
	case ModeReplace, "":
		if req.Filename == "" {
			return "", eris.New("publish: filename is required in replace mode")
		}
		return req.Filename, nil
	case ModeNewSlot:
		if req.SlotPrefix == "" || req.SlotExtension == "" {
			return "", eris.New("publish: slot prefix and extension are required in new-slot mode")
		}
		names, err := p.gh.ListRootFiles(ctx, req.Owner, req.Repo, req.Branch)
		if err != nil {
			// A failed listing allocates from empty rather than aborting.
			zap.L().Warn("publish: listing failed, allocating from empty",
				zap.String("repo", req.Repo),
				zap.Error(err),
			)
			names = nil
		}
		return NextAvailable(req.SlotPrefix, req.SlotExtension, names), nil
	default:
		return "", eris.Errorf("publish: unknown mode %q", req.Mode)
	}
}

// PagesURL returns the GitHub Pages URL a published file will serve from.
func PagesURL(owner, repo, filename string) string {
	return fmt.Sprintf("https://%s.github.io/%s/%s", owner, repo, filename)
}

// EmbedSnippet returns the iframe snippet content editors paste into a CMS.
func EmbedSnippet(embedURL, title string) string {
	return fmt.Sprintf(`<iframe src="%s"
  title="%s"
  width="100%%" height="750"
  scrolling="no"
  style="border:0;" loading="lazy"></iframe>`, embedURL, title)
}
