package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/foamcase/model/types"
)

const controlDict = `/*--------------------------------*- C++ -*----------------------------------*\
  =========                 |
\*---------------------------------------------------------------------------*/
FoamFile
{
    format      ascii;
    class       dictionary;
    object      controlDict;
}
// * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * * //

application     simpleFoam;
startFrom       startTime;
endTime         2000;
deltaT          1;
writeControl    timeStep;
runTimeModifiable true;
"(U|p)"         1;

functions
{
    probes
    {
        type            probes;
        fields          (p U);
        probeLocations  ((0.0 0 0) (0.1 0 0));
    }
}
`

func TestTool_Load(t *testing.T) {
	ctx := context.Background()
	tool := New()
	require.NoError(t, tool.Load("controlDict", controlDict))

	keywords, err := tool.Keywords(ctx, "controlDict", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"FoamFile", "application", "startFrom", "endTime", "deltaT", "writeControl", "runTimeModifiable", `"(U|p)"`, "functions"}, keywords)

	testCases := []struct {
		description string
		keywords    []string
		expected    string
	}{
		{description: "word", keywords: []string{"application"}, expected: "simpleFoam"},
		{description: "header", keywords: []string{"FoamFile", "object"}, expected: "controlDict"},
		{description: "list", keywords: []string{"functions", "probes", "fields"}, expected: "(p U)"},
		{description: "nested list", keywords: []string{"functions", "probes", "probeLocations"}, expected: "((0.0 0 0) (0.1 0 0))"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			value, err := tool.Value(ctx, "controlDict", tc.keywords)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}

	block, err := tool.Value(ctx, "controlDict", []string{"functions"})
	require.NoError(t, err)
	assert.Contains(t, block, "{\n")
	assert.Contains(t, block, "type probes;")

	assert.Error(t, tool.Load("broken", "a { b 1;"))
	assert.Error(t, tool.Load("broken", "a 1; }"))
}

func TestTool_Mutations(t *testing.T) {
	ctx := context.Background()
	tool := New()

	require.NoError(t, tool.Set(ctx, "fvSolution", []string{"solvers", "p", "solver"}, "GAMG"))
	require.NoError(t, tool.Set(ctx, "fvSolution", []string{"SIMPLE"}, "{ nNonOrthogonalCorrectors 0; residualControl { p 0.01; } } "))

	value, err := tool.Value(ctx, "fvSolution", []string{"solvers", "p", "solver"})
	require.NoError(t, err)
	assert.Equal(t, "GAMG", value)

	value, err = tool.Value(ctx, "fvSolution", []string{"SIMPLE", "residualControl", "p"})
	require.NoError(t, err)
	assert.Equal(t, "0.01", value)

	require.NoError(t, tool.Remove(ctx, "fvSolution", []string{"solvers", "p"}))
	_, err = tool.Value(ctx, "fvSolution", []string{"solvers", "p", "solver"})
	assert.ErrorIs(t, err, types.ErrMissingEntry)

	assert.ErrorIs(t, tool.Remove(ctx, "fvSolution", []string{"solvers", "p"}), types.ErrMissingEntry)
	assert.ErrorIs(t, tool.Remove(ctx, "fvSolution", []string{"nothing", "here"}), types.ErrMissingEntry)

	_, err = tool.Keywords(ctx, "fvSolution", []string{"SIMPLE", "nNonOrthogonalCorrectors"})
	assert.ErrorIs(t, err, types.ErrNotDictionary)

	keywords, err := tool.Keywords(ctx, "fvSolution", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"solvers", "SIMPLE"}, keywords)
}
