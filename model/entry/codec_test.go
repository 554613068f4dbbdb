package entry

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expected    Entry
	}{
		{description: "yes", input: "yes", expected: Bool(true)},
		{description: "no", input: "no", expected: Bool(false)},
		{description: "integer", input: "42", expected: Int(42)},
		{description: "negative integer", input: "-7", expected: Int(-7)},
		{description: "float", input: "0.25", expected: Float(0.25)},
		{description: "exponent", input: "1e-05", expected: Float(1e-05)},
		{description: "word", input: "simpleFoam", expected: String("simpleFoam")},
		{description: "surrounding whitespace", input: "  scotch \n", expected: String("scotch")},
		{description: "infinity stays a word", input: "inf", expected: String("inf")},
		{description: "nan stays a word", input: "nan", expected: String("nan")},
		{description: "flat list", input: "( 1 2 3 )", expected: List{Int(1), Int(2), Int(3)}},
		{description: "nested list", input: "( 1 2 ( 3 4 ) 5 )", expected: List{Int(1), Int(2), List{Int(3), Int(4)}, Int(5)}},
		{description: "compact nested list", input: "((1 2) (3 4))", expected: List{List{Int(1), Int(2)}, List{Int(3), Int(4)}}},
		{description: "mixed list", input: "( uniform 0.5 yes )", expected: List{String("uniform"), Float(0.5), Bool(true)}},
		{description: "multi-line list", input: "(\n\t1\n\t2\n)", expected: List{Int(1), Int(2)}},
		{description: "empty list", input: "( )", expected: List{}},
		{description: "unbalanced list", input: "( 1 2", expected: String("( 1 2")},
		{description: "two lists", input: "(1 2) (3 4)", expected: String("(1 2) (3 4)")},
		{description: "sized list", input: "3(1 2 3)", expected: String("3(1 2 3)")},
		{description: "sentence", input: "uniform (0 0 0)", expected: String("uniform (0 0 0)")},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			if diff := cmp.Diff(tc.expected, Parse(tc.input)); diff != "" {
				t.Fatalf("Parse(%q) mismatch (-want +got):\n%s", tc.input, diff)
			}
		})
	}
}

func TestParseList(t *testing.T) {
	_, err := ParseList("( 1 2")
	assert.Error(t, err)
	_, err = ParseList("word")
	assert.Error(t, err)

	list, err := ParseList(" ( a ( b c ) ) ")
	assert.NoError(t, err)
	assert.Equal(t, List{String("a"), List{String("b"), String("c")}}, list)
}

func TestSerialize(t *testing.T) {
	testCases := []struct {
		description string
		input       Entry
		expected    string
	}{
		{description: "true", input: Bool(true), expected: "yes"},
		{description: "false", input: Bool(false), expected: "no"},
		{description: "int", input: Int(4), expected: "4"},
		{description: "whole float", input: Float(1), expected: "1.0"},
		{description: "float", input: Float(0.001), expected: "0.001"},
		{description: "word", input: String("scotch"), expected: "scotch"},
		{description: "list", input: List{Int(1), Int(2), Int(3)}, expected: "( 1 2 3) "},
		{description: "empty list", input: List{}, expected: "( ) "},
		{
			description: "map",
			input:       Map{{Key: "method", Value: String("scotch")}, {Key: "numberOfSubdomains", Value: Int(4)}},
			expected:    "{ method scotch; numberOfSubdomains 4; } ",
		},
		{
			description: "nested map",
			input:       Map{{Key: "coeffs", Value: Map{{Key: "n", Value: List{Int(2), Int(2), Int(1)}}}}, {Key: "delta", Value: Float(0.5)}},
			expected:    "{ coeffs { n ( 2 2 1) ; } delta 0.5; } ",
		},
		{description: "verbatim", input: Verbatim("{ a b; }"), expected: "{ a b; }"},
		{
			description: "map with verbatim block",
			input:       Map{{Key: "p", Value: Verbatim("{ solver GAMG; }")}, {Key: "q", Value: Verbatim("1e-06")}},
			expected:    "{ p { solver GAMG; } q 1e-06; } ",
		},
		{description: "reference", input: Reference{File: "/case/system/fvSolution", Keywords: []string{"solvers", "p"}}, expected: "/case/system/fvSolution:solvers/p"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			assert.Equal(t, tc.expected, Serialize(tc.input))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	fixed := []Entry{
		Bool(true),
		Bool(false),
		Int(0),
		Int(-12),
		Float(2),
		Float(-3.5e-9),
		Float(1e21),
		String("Gauss"),
		List{},
		List{Int(1), Int(2), List{Int(3), Int(4)}, Int(5)},
		List{List{}, List{List{String("a")}}},
	}
	for _, value := range fixed {
		if diff := cmp.Diff(value, Parse(Serialize(value))); diff != "" {
			t.Fatalf("round trip of %#v mismatch (-want +got):\n%s", value, diff)
		}
	}

	random := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		value := randomEntry(random, 3)
		if diff := cmp.Diff(value, Parse(Serialize(value))); diff != "" {
			t.Fatalf("round trip of %#v mismatch (-want +got):\n%s", value, diff)
		}
	}
}

var words = []string{"simpleFoam", "uniform", "Gauss", "linear", "scotch", "PCG", "DIC", "latestTime", "p_rgh"}

func randomEntry(random *rand.Rand, depth int) Entry {
	kinds := 5
	if depth == 0 {
		kinds = 4
	}
	switch random.Intn(kinds) {
	case 0:
		return Bool(random.Intn(2) == 0)
	case 1:
		return Int(random.Int63n(1<<40) - 1<<39)
	case 2:
		return Float((random.Float64() - 0.5) * float64(random.Intn(1_000_000)+1))
	case 3:
		return String(words[random.Intn(len(words))])
	default:
		list := List{}
		for n := random.Intn(5); n > 0; n-- {
			list = append(list, randomEntry(random, depth-1))
		}
		return list
	}
}

func TestReference(t *testing.T) {
	root := Reference{File: "/case/system/controlDict"}
	assert.Equal(t, "controlDict", root.Name())
	assert.Equal(t, "", root.Path())

	child := root.Child("functions").Child("probes")
	assert.Equal(t, "functions/probes", child.Path())
	assert.Equal(t, "probes", child.Name())
	assert.Empty(t, root.Keywords)
	assert.True(t, child.Equal(Reference{File: "/case/system/controlDict", Keywords: []string{"functions", "probes"}}))
	assert.False(t, child.Equal(root))

	assert.True(t, HasReference(List{Int(1), Map{{Key: "a", Value: child}}}))
	assert.False(t, HasReference(List{Int(1), Map{{Key: "a", Value: String("b")}}}))
}
