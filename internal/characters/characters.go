package characters

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/lk16/holothello/internal/battle"
	"gopkg.in/yaml.v3"
)

//go:embed characters.yaml
var defaultCatalog []byte

// ErrUnknownCharacter is returned when a character is not in the catalog.
var ErrUnknownCharacter = errors.New("unknown character")

// Character is a playable character with its three skills.
type Character struct {
	Name   string             `json:"name"   yaml:"name"`
	Title  string             `json:"title"  yaml:"title"`
	Skills []battle.SkillData `json:"skills" yaml:"skills"`
}

// Catalog holds all characters by name.
type Catalog struct {
	characters map[string]Character
}

type catalogFile struct {
	Characters []Character `yaml:"characters"`
}

// Default returns the built in catalog.
func Default() *Catalog {
	catalog, err := Parse(defaultCatalog)
	if err != nil {
		panic(fmt.Sprintf("built in character catalog is invalid: %v", err))
	}
	return catalog
}

// Load reads a catalog from a YAML file. An empty path returns the built in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	catalog, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return catalog, nil
}

// Parse reads a catalog from YAML content.
func Parse(content []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	if len(file.Characters) == 0 {
		return nil, errors.New("catalog has no characters")
	}

	catalog := &Catalog{characters: make(map[string]Character, len(file.Characters))}

	for _, character := range file.Characters {
		if err := character.validate(); err != nil {
			return nil, err
		}

		if _, ok := catalog.characters[character.Name]; ok {
			return nil, fmt.Errorf("duplicate character %q", character.Name)
		}

		catalog.characters[character.Name] = character
	}

	return catalog, nil
}

func (c Character) validate() error {
	if c.Name == "" {
		return errors.New("character without name")
	}

	if len(c.Skills) != battle.SlotCount {
		return fmt.Errorf("character %q has %d skills, want %d", c.Name, len(c.Skills), battle.SlotCount)
	}

	for i, skill := range c.Skills {
		if skill.Name == "" {
			return fmt.Errorf("character %q: skill %d has no name", c.Name, i)
		}

		if skill.Cooldown < 0 || skill.Damage < 0 || skill.Heal < 0 {
			return fmt.Errorf("character %q: skill %q has negative values", c.Name, skill.Name)
		}

		if skill.Ultimate != (i == battle.UltimateSlot) {
			return fmt.Errorf("character %q: only the last skill is an ultimate", c.Name)
		}
	}

	return nil
}

// Get returns a character by name.
func (c *Catalog) Get(name string) (Character, error) {
	character, ok := c.characters[name]
	if !ok {
		return Character{}, fmt.Errorf("%w: %q", ErrUnknownCharacter, name)
	}
	return character, nil
}

// Skills returns the skill slots of a character.
func (c *Catalog) Skills(name string) ([battle.SlotCount]battle.SkillData, error) {
	var skills [battle.SlotCount]battle.SkillData

	character, err := c.Get(name)
	if err != nil {
		return skills, err
	}

	copy(skills[:], character.Skills)
	return skills, nil
}

// List returns all characters sorted by name.
func (c *Catalog) List() []Character {
	list := make([]Character, 0, len(c.characters))
	for _, character := range c.characters {
		list = append(list, character)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})

	return list
}

// Names returns all character names sorted.
func (c *Catalog) Names() []string {
	list := c.List()
	names := make([]string, len(list))
	for i, character := range list {
		names[i] = character.Name
	}
	return names
}
