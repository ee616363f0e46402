package publish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettercollective/embedforge/pkg/github"
)

// fakeGitHub implements github.Client with per-method hooks and defaults
// that model an existing, Pages-enabled repo.
type fakeGitHub struct {
	repoExists  func(owner, repo string) (bool, error)
	createRepo  func(req github.CreateRepoRequest) error
	checkPages  func(owner, repo string) (github.PagesState, error)
	enablePages func(owner, repo, branch string) error
	listFiles   func(owner, repo, ref string) ([]string, error)
	fileSHA     func(owner, repo, path, ref string) (string, error)
	upload      func(owner, repo, path string, content []byte, message, sha string) error
	trigger     func(owner, repo string) error

	uploads []string
}

func (f *fakeGitHub) RepoExists(_ context.Context, owner, repo string) (bool, error) {
	if f.repoExists != nil {
		return f.repoExists(owner, repo)
	}
	return true, nil
}

func (f *fakeGitHub) CreateRepo(_ context.Context, req github.CreateRepoRequest) error {
	if f.createRepo != nil {
		return f.createRepo(req)
	}
	return nil
}

func (f *fakeGitHub) CheckPages(_ context.Context, owner, repo string) (github.PagesState, error) {
	if f.checkPages != nil {
		return f.checkPages(owner, repo)
	}
	return github.PagesEnabled, nil
}

func (f *fakeGitHub) EnablePages(_ context.Context, owner, repo, branch string) error {
	if f.enablePages != nil {
		return f.enablePages(owner, repo, branch)
	}
	return nil
}

func (f *fakeGitHub) ListRootFiles(_ context.Context, owner, repo, ref string) ([]string, error) {
	if f.listFiles != nil {
		return f.listFiles(owner, repo, ref)
	}
	return nil, nil
}

func (f *fakeGitHub) FileSHA(_ context.Context, owner, repo, path, ref string) (string, error) {
	if f.fileSHA != nil {
		return f.fileSHA(owner, repo, path, ref)
	}
	return "", nil
}

func (f *fakeGitHub) UploadFile(_ context.Context, owner, repo, path string, content []byte, message, sha string) error {
	f.uploads = append(f.uploads, path)
	if f.upload != nil {
		return f.upload(owner, repo, path, content, message, sha)
	}
	return nil
}

func (f *fakeGitHub) TriggerPagesBuild(_ context.Context, owner, repo string) error {
	if f.trigger != nil {
		return f.trigger(owner, repo)
	}
	return nil
}

func TestPublish_ReplaceMode(t *testing.T) {
	fake := &fakeGitHub{
		fileSHA: func(_, _, path, _ string) (string, error) {
			assert.Equal(t, "supermoon_table.html", path)
			return "oldsha", nil
		},
		upload: func(_, _, path string, content []byte, message, sha string) error {
			assert.Equal(t, "supermoon_table.html", path)
			assert.Equal(t, "<html>x</html>", string(content))
			assert.Equal(t, "oldsha", sha)
			assert.Equal(t, "refresh widget", message)
			return nil
		},
	}

	out, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:    "acme",
		Repo:     "widgets",
		Filename: "supermoon_table.html",
		Mode:     ModeReplace,
		HTML:     "<html>x</html>",
		Message:  "refresh widget",
	})
	require.NoError(t, err)

	assert.Equal(t, "supermoon_table.html", out.Filename)
	assert.Equal(t, "https://acme.github.io/widgets/supermoon_table.html", out.EmbedURL)
	assert.False(t, out.RepoCreated)
	assert.True(t, out.BuildRequested)
	assert.Empty(t, out.PagesWarning)
}

func TestPublish_NewSlotMode(t *testing.T) {
	fake := &fakeGitHub{
		listFiles: func(_, _, _ string) ([]string, error) {
			return []string{"w1.html", "w4.html", "index.html"}, nil
		},
	}

	out, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:         "acme",
		Repo:          "widgets",
		Mode:          ModeNewSlot,
		SlotPrefix:    "w",
		SlotExtension: ".html",
		HTML:          "<html></html>",
	})
	require.NoError(t, err)
	assert.Equal(t, "w5.html", out.Filename)
	assert.Equal(t, []string{"w5.html"}, fake.uploads)
}

func TestPublish_NewSlotListingFailureAllocatesFromEmpty(t *testing.T) {
	fake := &fakeGitHub{
		listFiles: func(_, _, _ string) ([]string, error) {
			return nil, assert.AnError
		},
	}

	out, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:         "acme",
		Repo:          "widgets",
		Mode:          ModeNewSlot,
		SlotPrefix:    "w",
		SlotExtension: ".html",
		HTML:          "<html></html>",
	})
	require.NoError(t, err)
	assert.Equal(t, "w1.html", out.Filename)
}

func TestPublish_CreatesMissingRepo(t *testing.T) {
	var created bool
	fake := &fakeGitHub{
		repoExists: func(_, _ string) (bool, error) { return false, nil },
		createRepo: func(req github.CreateRepoRequest) error {
			created = true
			assert.Equal(t, "widgets", req.Name)
			assert.True(t, req.AutoInit)
			return nil
		},
	}

	out, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:    "acme",
		Repo:     "widgets",
		Filename: "t1.html",
		HTML:     "<html></html>",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, out.RepoCreated)
}

func TestPublish_EnablesAbsentPages(t *testing.T) {
	var enabled bool
	fake := &fakeGitHub{
		checkPages: func(_, _ string) (github.PagesState, error) {
			return github.PagesAbsent, nil
		},
		enablePages: func(_, _, branch string) error {
			enabled = true
			assert.Equal(t, "main", branch)
			return nil
		},
	}

	_, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:    "acme",
		Repo:     "widgets",
		Filename: "t1.html",
		HTML:     "<html></html>",
	})
	require.NoError(t, err)
	assert.True(t, enabled)
}

func TestPublish_ForbiddenPagesIsWarningOnly(t *testing.T) {
	fake := &fakeGitHub{
		checkPages: func(_, _ string) (github.PagesState, error) {
			return github.PagesForbidden, nil
		},
	}

	out, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:    "acme",
		Repo:     "widgets",
		Filename: "t1.html",
		HTML:     "<html></html>",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, out.PagesWarning)
	assert.Len(t, fake.uploads, 1)
}

func TestPublish_BuildTriggerFailureIsNonFatal(t *testing.T) {
	fake := &fakeGitHub{
		trigger: func(_, _ string) error { return assert.AnError },
	}

	out, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:    "acme",
		Repo:     "widgets",
		Filename: "t1.html",
		HTML:     "<html></html>",
	})
	require.NoError(t, err)
	assert.False(t, out.BuildRequested)
}

func TestPublish_UploadFailureAborts(t *testing.T) {
	fake := &fakeGitHub{
		upload: func(_, _, _ string, _ []byte, _, _ string) error {
			return assert.AnError
		},
	}

	_, err := NewPublisher(fake).Publish(context.Background(), Request{
		Owner:    "acme",
		Repo:     "widgets",
		Filename: "t1.html",
		HTML:     "<html></html>",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload file")
}

func TestPublish_Validation(t *testing.T) {
	p := NewPublisher(&fakeGitHub{})

	_, err := p.Publish(context.Background(), Request{Repo: "widgets"})
	require.Error(t, err)

	_, err = p.Publish(context.Background(), Request{Owner: "acme", Repo: "w", Mode: ModeReplace})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filename is required")

	_, err = p.Publish(context.Background(), Request{Owner: "acme", Repo: "w", Mode: ModeNewSlot})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot prefix")

	_, err = p.Publish(context.Background(), Request{Owner: "acme", Repo: "w", Mode: "upsert", Filename: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestEmbedSnippet(t *testing.T) {
	got := EmbedSnippet("https://acme.github.io/widgets/w1.html", "My Widget")
	assert.Contains(t, got, `src="https://acme.github.io/widgets/w1.html"`)
	assert.Contains(t, got, `title="My Widget"`)
	assert.Contains(t, got, `height="750"`)
}
