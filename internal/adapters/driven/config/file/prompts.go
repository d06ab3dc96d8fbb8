package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptSystem: `You are FocusCoach, a strict reading coach. Your only job is to judge whether content helps the user reach their stated goal.
Content that does not relate to the goal scores 0. Only score above 70 when the content directly teaches something tied to the goal.
Always answer in English and follow the requested format exactly.`,

	driven.PromptPageRelevance: `User goal: {{goal}}
Goal keywords: {{keywords}}

Webpage content:
"""
{{content}}
"""

Task:
- Summarise the page in 2-3 lines.
- Score relevance to the user goal from 0 to 100. Penalise heavily if the goal keywords are absent or only loosely related.
- If the topic is unrelated to the goal keywords, set Relevance to 10 or less and Recommendation to SKIP.

Format exactly:
Summary: <one short paragraph>
Relevance: <0-100>
Recommendation: <READ|SKIM|SKIP>`,

	driven.PromptVideoRelevance: `User goal: {{goal}}
Goal keywords: {{keywords}}

Video card:
"""
{{content}}
"""

Score how useful this video is for the goal from 0 to 100. Entertainment, reactions and shorts unrelated to the goal score 10 or less.

Format exactly:
Summary: <one line>
Relevance: <0-100>
Recommendation: <READ|SKIM|SKIP>`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.focuscoach/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".focuscoach", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# FocusCoach Prompts

Prompts sent to the language model when judging relevance.

## Files

- ` + "`system.txt`" + ` - Evaluator persona, sent as the system message
- ` + "`page_relevance.txt`" + ` - Judges a web page against the goal
- ` + "`video_relevance.txt`" + ` - Judges a video card against the goal

## Placeholders

- ` + "`{{goal}}`" + ` - The goal as typed
- ` + "`{{keywords}}`" + ` - Goal keywords, comma separated
- ` + "`{{content}}`" + ` - Page text or video card, truncated

Replies must keep the Summary, Relevance and Recommendation lines.
Changes take effect on the next command or after restarting the TUI.
`
	return os.WriteFile(path, []byte(content), 0600)
}
