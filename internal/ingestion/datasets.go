package ingestion

import (
	"fmt"
	"sort"
	"strings"
)

// Dataset is one downloadable Cricsheet archive. Archive is the zip file
// name under the Cricsheet downloads root.
type Dataset struct {
	Key     string
	Name    string
	Archive string
}

var cricsheetDatasets = map[string]Dataset{
	"ipl":      {Key: "ipl", Name: "Indian Premier League", Archive: "ipl_json.zip"},
	"t20i":     {Key: "t20i", Name: "T20 internationals", Archive: "t20s_json.zip"},
	"odi":      {Key: "odi", Name: "One-day internationals", Archive: "odis_json.zip"},
	"tests":    {Key: "tests", Name: "Test matches", Archive: "tests_json.zip"},
	"bbl":      {Key: "bbl", Name: "Big Bash League", Archive: "bbl_json.zip"},
	"psl":      {Key: "psl", Name: "Pakistan Super League", Archive: "psl_json.zip"},
	"recent_7": {Key: "recent_7", Name: "Recently added (last 7 days)", Archive: "recently_added_7_json.zip"},
}

func DatasetByKey(key string) (Dataset, error) {
	ds, ok := cricsheetDatasets[key]
	if !ok {
		keys := make([]string, 0, len(cricsheetDatasets))
		for k := range cricsheetDatasets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return Dataset{}, fmt.Errorf("unknown dataset %q, available: %s", key, strings.Join(keys, ", "))
	}
	return ds, nil
}

// Datasets returns the catalog sorted by key.
func Datasets() []Dataset {
	out := make([]Dataset, 0, len(cricsheetDatasets))
	for _, ds := range cricsheetDatasets {
		out = append(out, ds)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
