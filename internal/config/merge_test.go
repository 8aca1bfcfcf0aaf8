package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMerge_Rules(t *testing.T) {
	tests := []struct {
		name     string
		base     Tree
		overlay  Tree
		expected Tree
	}{
		{
			name:     "scalar replaces and sequence appends",
			base:     Tree{"a": Int(1), "b": Seq(Int(1))},
			overlay:  Tree{"a": Int(2), "b": Seq(Int(2))},
			expected: Tree{"a": Int(2), "b": Seq(Int(1), Int(2))},
		},
		{
			name:     "base-only keys are preserved",
			base:     Tree{"keep": String("me"), "x": Int(1)},
			overlay:  Tree{"x": Int(2)},
			expected: Tree{"keep": String("me"), "x": Int(2)},
		},
		{
			name:     "overlay-only keys are added",
			base:     Tree{},
			overlay:  Tree{"new": Bool(true)},
			expected: Tree{"new": Bool(true)},
		},
		{
			name:     "mappings merge recursively",
			base:     Tree{"auto": Tree{"rgb_color": String("#ff00ff"), "rgb_speed": Int(0)}},
			overlay:  Tree{"auto": Tree{"rgb_speed": Int(5)}},
			expected: Tree{"auto": Tree{"rgb_color": String("#ff00ff"), "rgb_speed": Int(5)}},
		},
		{
			name:     "missing mapping is created",
			base:     Tree{"other": Int(1)},
			overlay:  Tree{"auto": Tree{"rgb_speed": Int(5)}},
			expected: Tree{"other": Int(1), "auto": Tree{"rgb_speed": Int(5)}},
		},
		{
			name:     "missing sequence starts empty",
			base:     Tree{},
			overlay:  Tree{"list": Seq(String("a"))},
			expected: Tree{"list": Seq(String("a"))},
		},
		{
			name:     "scalar replaces mapping",
			base:     Tree{"auto": Tree{"rgb_speed": Int(5)}},
			overlay:  Tree{"auto": String("off")},
			expected: Tree{"auto": String("off")},
		},
		{
			name:     "scalar replaces sequence",
			base:     Tree{"list": Seq(Int(1))},
			overlay:  Tree{"list": Null()},
			expected: Tree{"list": Null()},
		},
		{
			name:     "mapping over scalar starts from empty mapping",
			base:     Tree{"auto": Int(3)},
			overlay:  Tree{"auto": Tree{"rgb_speed": Int(5)}},
			expected: Tree{"auto": Tree{"rgb_speed": Int(5)}},
		},
		{
			name:     "sequence over mapping starts from empty sequence",
			base:     Tree{"list": Tree{"x": Int(1)}},
			overlay:  Tree{"list": Seq(Int(2))},
			expected: Tree{"list": Seq(Int(2))},
		},
		{
			name:     "nested sequences append inside mappings",
			base:     Tree{"auto": Tree{"pins": Seq(Int(6))}},
			overlay:  Tree{"auto": Tree{"pins": Seq(Int(13), Int(19))}},
			expected: Tree{"auto": Tree{"pins": Seq(Int(6), Int(13), Int(19))}},
		},
		{
			name:     "nil base",
			base:     nil,
			overlay:  Tree{"a": Int(1)},
			expected: Tree{"a": Int(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Merge(tt.base, tt.overlay))
		})
	}
}

func TestMerge_EmptyOverlayIsRightIdentity(t *testing.T) {
	defaults := Defaults()

	assert.Equal(t, defaults, Merge(defaults, Tree{}))
	assert.Equal(t, defaults, Merge(defaults, nil))
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	base := Tree{"auto": Tree{"rgb_speed": Int(0)}, "list": Seq(Int(1))}
	overlay := Tree{"auto": Tree{"rgb_speed": Int(5)}, "list": Seq(Int(2))}
	baseCopy := base.Clone()
	overlayCopy := overlay.Clone()

	result := Merge(base, overlay)
	result.Subtree("auto")["rgb_speed"] = Int(42)

	assert.Equal(t, baseCopy, base)
	assert.Equal(t, overlayCopy, overlay)
}

// Sequences accumulate across merges. This is the documented policy, not an
// accident: merging the same overlay twice repeats its elements.
func TestMerge_SequencesAccumulateOnRepeatedMerge(t *testing.T) {
	overlay := Tree{"auto": Tree{"history": Seq(String("rainbow"))}}

	once := Merge(Tree{}, overlay)
	twice := Merge(once, overlay)
	thrice := Merge(twice, overlay)

	assert.Equal(t, Seq(String("rainbow")), once.Subtree("auto")["history"])
	assert.Equal(t, Seq(String("rainbow"), String("rainbow")), twice.Subtree("auto")["history"])
	assert.Len(t, thrice.Subtree("auto")["history"], 3)
}

func TestMergeAll_LaterLayersWin(t *testing.T) {
	persisted := Tree{"auto": Tree{"rgb_style": String("breathing"), "rgb_brightness": Int(80)}}
	override := AutoOverride(Tree{"rgb_brightness": Int(50)})

	effective := MergeAll(Defaults(), persisted, override)
	auto := ReadAuto(effective)

	assert.Equal(t, String("breathing"), auto["rgb_style"])
	assert.Equal(t, Int(50), auto["rgb_brightness"])
	assert.Equal(t, String("#ff00ff"), auto["rgb_color"])
}

func TestReadAuto(t *testing.T) {
	assert.Equal(t, Tree{}, ReadAuto(Tree{}))
	assert.Equal(t, Tree{}, ReadAuto(Tree{"auto": String("bogus")}))

	tree := Tree{"auto": Tree{"rgb_speed": Int(3)}}
	auto := ReadAuto(tree)
	assert.Equal(t, Tree{"rgb_speed": Int(3)}, auto)

	auto["rgb_speed"] = Int(9)
	assert.Equal(t, Int(3), tree.Subtree("auto")["rgb_speed"], "ReadAuto must return a copy")
}

func TestDefaults_AreFreshCopies(t *testing.T) {
	first := DefaultAuto()
	first[KeyRGBColor] = String("#000000")

	assert.Equal(t, String("#ff00ff"), DefaultAuto()[KeyRGBColor])
	assert.NotContains(t, DefaultAuto(), KeyGPIOFanMode)
}
