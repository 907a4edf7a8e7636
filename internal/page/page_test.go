package page

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabdeck/internal/anchor"
	"tabdeck/internal/bus"
	"tabdeck/internal/markup"
	"tabdeck/internal/tabs"
)

func loadFixture(t *testing.T, reg *anchor.Registry, cfg Config) *Page {
	t.Helper()
	f, err := os.Open("testdata/install.html")
	require.NoError(t, err)
	defer f.Close()
	doc, err := markup.Parse(f)
	require.NoError(t, err)
	p, err := Load(doc, reg, cfg)
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func TestLoad_DiscoversGroupsInDocumentOrder(t *testing.T) {
	p := loadFixture(t, anchor.New(), Config{})

	assert.Equal(t, []string{"os", "pkg", "shell"}, names(p.Groups()))
	g, ok := p.Group("os")
	require.True(t, ok)
	assert.Equal(t, []string{"linux", "macos", "windows"}, g.Tabs())
	assert.Equal(t, "", p.Fragment(), "loading alone writes nothing")
}

func TestLoad_RestoresFromRegistry(t *testing.T) {
	reg := anchor.New()
	require.NoError(t, reg.SetFragment("#os=macos&shell=zsh"))

	p := loadFixture(t, reg, Config{})

	osGroup, _ := p.Group("os")
	shell, _ := p.Group("shell")
	pkg, _ := p.Group("pkg")
	assert.Equal(t, "macos", osGroup.ActiveTabName())
	assert.Equal(t, "zsh", shell.ActiveTabName())
	assert.Equal(t, "apt", pkg.ActiveTabName())
	assert.True(t, osGroup.Body("macos").HasClass(tabs.DefaultClasses.ActiveBody))
}

func TestClick_UpdatesFragment(t *testing.T) {
	p := loadFixture(t, anchor.New(), Config{})

	require.NoError(t, p.Click("pkg", "dnf"))
	require.NoError(t, p.Click("os", "windows"))
	assert.Equal(t, "#os=windows&pkg=dnf", p.Fragment())

	err := p.Click("os", "beos")
	assert.ErrorIs(t, err, tabs.ErrNoSuchTab)
	err = p.Click("nope", "x")
	assert.ErrorIs(t, err, ErrUnknownGroup)
}

func TestRestore_MovesEveryGroup(t *testing.T) {
	p := loadFixture(t, anchor.New(), Config{})

	require.NoError(t, p.Restore("#os=macos&pkg=dnf&shell=zsh"))
	for name, want := range map[string]string{"os": "macos", "pkg": "dnf", "shell": "zsh"} {
		g, _ := p.Group(name)
		assert.Equal(t, want, g.ActiveTabName(), name)
	}

	assert.Error(t, p.Restore("#os"))
}

func TestRestore_ClearedKeysFollowVisibleTabs(t *testing.T) {
	p := loadFixture(t, anchor.New(), Config{})

	require.NoError(t, p.Click("os", "macos"))
	require.NoError(t, p.Restore(""))
	osGroup, _ := p.Group("os")
	assert.Equal(t, "macos", osGroup.ActiveTabName())
	assert.Equal(t, "#os=macos", p.Fragment())

	require.NoError(t, p.Click("os", "macos"))
	assert.Equal(t, "#os=macos", p.Fragment())

	require.NoError(t, p.Click("os", "windows"))
	assert.Equal(t, "#os=windows", p.Fragment())
}

func TestStep_Wraps(t *testing.T) {
	p := loadFixture(t, anchor.New(), Config{})
	osGroup, _ := p.Group("os")

	require.NoError(t, p.Step("os", -1))
	assert.Equal(t, "windows", osGroup.ActiveTabName())
	require.NoError(t, p.Step("os", 1))
	assert.Equal(t, "linux", osGroup.ActiveTabName())
	require.NoError(t, p.Step("os", 5))
	assert.Equal(t, "windows", osGroup.ActiveTabName())
	assert.ErrorIs(t, p.Step("nope", 1), ErrUnknownGroup)
}

func TestVisibilityBroadcast_SharedAcrossGroups(t *testing.T) {
	b := bus.New()
	var n int
	b.Subscribe(bus.TopicVisibility, func(...any) { n++ })
	p := loadFixture(t, anchor.New(), Config{Bus: b})

	require.NoError(t, p.Click("os", "macos"))
	require.NoError(t, p.Click("shell", "zsh"))
	assert.Equal(t, 2, n)
	assert.Same(t, b, p.Bus())
}

func TestLoad_DuplicateGroup(t *testing.T) {
	src := `<div class="tabs"><ul class="tabs__titles"><li class="tabs__title"><a class="tabs__control" href="#g=a">A</a></li></ul><div class="tabs__body">1</div></div>
	<div class="tabs"><ul class="tabs__titles"><li class="tabs__title"><a class="tabs__control" href="#g=b">B</a></li></ul><div class="tabs__body">2</div></div>`
	doc, err := markup.ParseString(src)
	require.NoError(t, err)

	_, err = Load(doc, anchor.New(), Config{})
	assert.ErrorIs(t, err, ErrDuplicateGroup)
}

func TestLoad_BadGroup(t *testing.T) {
	doc, err := markup.ParseString(`<div class="tabs"><p>empty</p></div>`)
	require.NoError(t, err)

	_, err = Load(doc, anchor.New(), Config{})
	assert.ErrorIs(t, err, tabs.ErrNoControls)
}

func TestVisibleGroups_FollowsEnclosingBody(t *testing.T) {
	p := loadFixture(t, anchor.New(), Config{})
	pkg, _ := p.Group("pkg")

	assert.Equal(t, []string{"os", "pkg", "shell"}, names(p.VisibleGroups()))
	assert.Equal(t, 1, p.Depth(pkg))

	require.NoError(t, p.Click("os", "macos"))
	assert.False(t, p.Visible(pkg))
	assert.Equal(t, []string{"os", "shell"}, names(p.VisibleGroups()))

	require.NoError(t, p.Click("os", "linux"))
	assert.True(t, p.Visible(pkg))
}

func TestLoad_DefaultsConfig(t *testing.T) {
	p := loadFixture(t, anchor.New(), Config{Classes: tabs.Classes{ActiveTitle: "on"}})
	assert.Equal(t, tabs.Classes{ActiveTitle: "on", ActiveBody: tabs.DefaultClasses.ActiveBody}, p.Classes())
	assert.Equal(t, tabs.DefaultSelectors, p.Selectors())
}

func names(groups []*tabs.Group) []string {
	var out []string
	for _, g := range groups {
		out = append(out, g.Name())
	}
	return out
}
