package system_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omicsworks/gutmetrics/internal/testutil"
)

func TestExecutionOrderFollowsDependsOn(t *testing.T) {
	recorder := testutil.NewRecorderModule()
	result := testutil.RunIntegrationTest(t, map[string]string{
		"modules/recorder/manifest.hcl": testutil.RecorderManifest,
		"pipelines/main.hcl": `
stage "recorder" "format" {
  arguments {
    id = "format"
  }
}

stage "recorder" "lint" {
  depends_on = ["recorder.format"]
  arguments {
    id = "lint"
  }
}

stage "recorder" "type_check" {
  depends_on = ["recorder.lint"]
  arguments {
    id = "type-check"
  }
}

stage "recorder" "test" {
  depends_on = ["recorder.type_check"]
  arguments {
    id = "test"
  }
}
`,
	}, recorder)

	require.NoError(t, result.Err)
	assert.Equal(t, []string{"format", "lint", "type-check", "test"}, recorder.Order())
}

func TestFailureSkipsDependents(t *testing.T) {
	recorder := testutil.NewRecorderModule()
	result := testutil.RunIntegrationTest(t, map[string]string{
		"modules/recorder/manifest.hcl": testutil.RecorderManifest,
		"pipelines/main.hcl": `
stage "recorder" "first" {
  arguments {
    id = "first"
  }
}

stage "recorder" "breaks" {
  depends_on = ["recorder.first"]
  arguments {
    id   = "breaks"
    fail = true
  }
}

stage "recorder" "never" {
  depends_on = ["recorder.breaks"]
  arguments {
    id = "never"
  }
}
`,
	}, recorder)

	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), `recorder stage "breaks" failed on request`)

	order := recorder.Order()
	assert.Contains(t, order, "first")
	assert.Contains(t, order, "breaks")
	assert.NotContains(t, order, "never")
}

func TestIndependentStagesRunConcurrently(t *testing.T) {
	recorder := testutil.NewRecorderModule()
	result := testutil.RunIntegrationTest(t, map[string]string{
		"modules/recorder/manifest.hcl": testutil.RecorderManifest,
		"pipelines/main.hcl": `
stage "recorder" "left" {
  arguments {
    id       = "left"
    sleep_ms = 100
  }
}

stage "recorder" "right" {
  arguments {
    id       = "right"
    sleep_ms = 100
  }
}
`,
	}, recorder)

	require.NoError(t, result.Err)

	left, ok := recorder.Record("left")
	require.True(t, ok)
	right, ok := recorder.Record("right")
	require.True(t, ok)

	// With 4 workers both stages are seeded together, so their execution
	// windows must overlap.
	assert.True(t, left.Start.Before(right.End), "left should start before right ends")
	assert.True(t, right.Start.Before(left.End), "right should start before left ends")
}

func TestTargetPruningRunsOnlyAncestors(t *testing.T) {
	recorder := testutil.NewRecorderModule()
	result := testutil.RunTargetedTest(t, map[string]string{
		"modules/recorder/manifest.hcl": testutil.RecorderManifest,
		"pipelines/main.hcl": `
stage "recorder" "install" {
  arguments {
    id = "install"
  }
}

stage "recorder" "build" {
  depends_on = ["recorder.install"]
  arguments {
    id = "build"
  }
}

stage "recorder" "unrelated" {
  arguments {
    id = "unrelated"
  }
}
`,
	}, "build", recorder)

	require.NoError(t, result.Err)
	assert.Equal(t, []string{"install", "build"}, recorder.Order())
}
