package system_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/omicsworks/gutmetrics/internal/app"
	"github.com/omicsworks/gutmetrics/internal/frame"
	"github.com/omicsworks/gutmetrics/internal/testutil"
)

// shippedManifests loads the real module manifests from the repository so
// system tests exercise the exact files users run with.
func shippedManifests(t *testing.T) map[string]string {
	t.Helper()
	files := make(map[string]string)
	names := []string{
		"framestore", "csv", "cleaning", "validate", "scaling",
		"exec", "cleanup", "fetch", "envvars", "print",
	}
	for _, name := range names {
		path := filepath.Join("..", "..", "..", "modules", name, "manifest.hcl")
		content, err := os.ReadFile(path)
		require.NoError(t, err, "manifest for module %s", name)
		files["modules/"+name+"/manifest.hcl"] = string(content)
	}
	return files
}

// TestShippedManifestParity runs a minimal pipeline against every shipped
// manifest, which forces full registry validation of manifest/Go parity.
func TestShippedManifestParity(t *testing.T) {
	files := shippedManifests(t)
	files["pipelines/main.hcl"] = `
stage "print" "hello" {
  arguments {
    input = {
      hello = "world"
    }
  }
}
`
	result := testutil.RunIntegrationTest(t, files, app.CoreModules()...)
	require.NoError(t, result.Err)
}

func TestPreprocessPipelineEndToEnd(t *testing.T) {
	dataDir := t.TempDir()
	metabolomicsCSV := filepath.Join(dataDir, "metabolomics.csv")
	microbiomeCSV := filepath.Join(dataDir, "microbiome.csv")
	outputCSV := filepath.Join(dataDir, "combined.csv")

	require.NoError(t, os.WriteFile(metabolomicsCSV, []byte(
		"public_client_id,shannon,PD_whole_tree,chao1,met1\n"+
			"1,2.5,0.5,100,0.1\n"+
			"2,2.7,0.6,120,0.2\n"+
			"3,2.9,0.7,140,0.6\n"), 0o644))
	require.NoError(t, os.WriteFile(microbiomeCSV, []byte(
		"bacteria_1,bacteria_2,total_reads\n"+
			"0.5,0.5,30000\n"+
			"0.6,0.4,31000\n"), 0o644))

	files := shippedManifests(t)
	files["pipelines/main.hcl"] = fmt.Sprintf(`
resource "frame_store" "main" {}

stage "load_csv" "load_metabolomics" {
  arguments {
    path = %q
    name = "metabolomics"
  }
  uses {
    store = resource.frame_store.main
  }
}

stage "load_csv" "load_microbiome" {
  arguments {
    path = %q
    name = "microbiome"
  }
  uses {
    store = resource.frame_store.main
  }
}

stage "standardize_index" "index_metabolomics" {
  depends_on = ["load_csv.load_metabolomics"]
  arguments {
    name = "metabolomics"
  }
  uses {
    store = resource.frame_store.main
  }
}

stage "validate_frame" "check_metabolomics" {
  depends_on = ["standardize_index.index_metabolomics"]
  arguments {
    name = "metabolomics"
    kind = "metabolomics"
  }
  uses {
    store = resource.frame_store.main
  }
}

stage "validate_frame" "check_microbiome" {
  depends_on = ["load_csv.load_microbiome"]
  arguments {
    name = "microbiome"
    kind = "microbiome"
  }
  uses {
    store = resource.frame_store.main
  }
}

stage "scale_frame" "scale_metabolomics" {
  depends_on = ["validate_frame.check_metabolomics"]
  arguments {
    name  = "metabolomics"
    omics = "metabolomics"
  }
  uses {
    store = resource.frame_store.main
  }
}

stage "write_csv" "save" {
  depends_on = ["scale_frame.scale_metabolomics"]
  arguments {
    name = "metabolomics"
    path = %q
  }
  uses {
    store = resource.frame_store.main
  }
}
`, metabolomicsCSV, microbiomeCSV, outputCSV)

	result := testutil.RunIntegrationTest(t, files, app.CoreModules()...)
	require.NoError(t, result.Err)

	out, err := os.Open(outputCSV)
	require.NoError(t, err)
	defer out.Close()

	got, err := frame.ReadCSV(out)
	require.NoError(t, err)

	assert.Equal(t, 3, got.NumRows())
	assert.Equal(t,
		[]string{"public_client_id", "shannon", "PD_whole_tree", "chao1", "met1"},
		got.ColumnNames())

	// Metadata survives unscaled, features come out standardized.
	shannon, _ := got.Column("shannon")
	assert.Equal(t, []float64{2.5, 2.7, 2.9}, shannon.Floats)

	met1, _ := got.Column("met1")
	assert.InDelta(t, 0, stat.Mean(met1.Floats, nil), 1e-9)
	assert.InDelta(t, 1, stat.PopStdDev(met1.Floats, nil), 1e-9)
}

func TestPipelineFailsOnInvalidData(t *testing.T) {
	dataDir := t.TempDir()
	badCSV := filepath.Join(dataDir, "bad.csv")
	require.NoError(t, os.WriteFile(badCSV, []byte(
		"public_client_id,met1\n1,0.1\n2,0.2\n"), 0o644))

	files := shippedManifests(t)
	files["pipelines/main.hcl"] = fmt.Sprintf(`
resource "frame_store" "main" {}

stage "load_csv" "load" {
  arguments {
    path = %q
    name = "bad"
  }
  uses {
    store = resource.frame_store.main
  }
}

stage "validate_frame" "check" {
  depends_on = ["load_csv.load"]
  arguments {
    name = "bad"
    kind = "metabolomics"
  }
  uses {
    store = resource.frame_store.main
  }
}
`, badCSV)

	result := testutil.RunIntegrationTest(t, files, app.CoreModules()...)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "Missing required columns: shannon, PD_whole_tree, chao1")
}
