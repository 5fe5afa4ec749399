package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const homeShortcutConstant = "~"

// homePrefixes lists the shortcut spellings that may lead a path. The second
// entry only differs from the first on systems with a non-slash separator.
var homePrefixes = []string{
	homeShortcutConstant + "/",
	homeShortcutConstant + string(os.PathSeparator),
}

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites leading "~" shortcuts into the user's home directory,
// resolving the directory once and caching the answer.
type HomeExpander struct {
	lookupHome  HomeDirectoryProvider
	lookupOnce  sync.Once
	cachedHome  string
	lookupError error
}

// NewHomeExpander constructs an expander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs an expander with a custom home
// lookup. A nil provider falls back to os.UserHomeDir.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{lookupHome: provider}
}

// Expand replaces a leading home shortcut with the resolved home directory.
// Paths without the shortcut, and every path when the home lookup fails, come
// back unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, homeShortcutConstant) {
		return candidatePath
	}

	homeDirectory := expander.homeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	if candidatePath == homeShortcutConstant {
		return homeDirectory
	}

	for _, shortcutPrefix := range homePrefixes {
		if remainder, found := strings.CutPrefix(candidatePath, shortcutPrefix); found {
			return filepath.Join(homeDirectory, remainder)
		}
	}

	return candidatePath
}

func (expander *HomeExpander) homeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.cachedHome, expander.lookupError = expander.lookupHome()
	})
	if expander.lookupError != nil {
		return ""
	}
	return expander.cachedHome
}
