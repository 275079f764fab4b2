package ingestion

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMatchJSON = `{
  "meta": {"data_version": 1.1, "created": "2024-04-02", "revision": 2},
  "info": {
    "season": 2024,
    "dates": ["2024-03-22", "2024-03-23"],
    "city": "Kolkata",
    "venue": "Eden Gardens",
    "teams": ["Knights", "Royals"],
    "team_type": "club",
    "match_type": "T20",
    "gender": "male",
    "overs": 20,
    "balls_per_over": 6,
    "toss": {"winner": "Knights", "decision": "bat"},
    "outcome": {"winner": "Knights", "by": {"runs": 12}},
    "player_of_match": ["A Batter"],
    "event": {"name": "Premier League", "match_number": 7},
    "officials": {"umpires": ["U One", "U Two"]},
    "players": {
      "Knights": ["A Batter", "B Batter"],
      "Royals": ["C Bowler"]
    },
    "registry": {"people": {"A Batter": "abc123"}}
  },
  "innings": [
    {
      "team": "Knights",
      "overs": [
        {
          "over": 0,
          "deliveries": [
            {
              "batter": "A Batter",
              "bowler": "C Bowler",
              "non_striker": "B Batter",
              "runs": {"batter": 4, "extras": 0, "total": 4}
            },
            {
              "batter": "A Batter",
              "bowler": "C Bowler",
              "non_striker": "B Batter",
              "runs": {"batter": 0, "extras": 1, "total": 1},
              "extras": {"wides": 1}
            },
            {
              "batter": "A Batter",
              "bowler": "C Bowler",
              "non_striker": "B Batter",
              "runs": {"batter": 0, "extras": 0, "total": 0},
              "wickets": [
                {
                  "player_out": "A Batter",
                  "kind": "caught",
                  "fielders": [{"name": "D Fielder"}]
                }
              ],
              "review": {"by": "Knights", "decision": "upheld", "type": "wicket"}
            }
          ]
        }
      ]
    },
    {
      "team": "Royals",
      "super_over": true,
      "overs": [
        {
          "over": 0,
          "deliveries": [
            {
              "batter": "C Bowler",
              "bowler": "A Batter",
              "non_striker": "E Batter",
              "runs": {"batter": 6, "extras": 0, "total": 6}
            }
          ]
        }
      ]
    }
  ]
}`

func matchCol(t *testing.T, row []any, column string) any {
	t.Helper()
	idx := MatchesSchema.ColumnIndex(column)
	require.GreaterOrEqual(t, idx, 0, "unknown match column %s", column)
	return row[idx]
}

func deliveryCol(t *testing.T, row []any, column string) any {
	t.Helper()
	idx := DeliveriesSchema.ColumnIndex(column)
	require.GreaterOrEqual(t, idx, 0, "unknown delivery column %s", column)
	return row[idx]
}

func TestParseMatchFile_MatchRow(t *testing.T) {
	parsed, err := ParseMatchFile("m_1001", []byte(sampleMatchJSON))
	require.NoError(t, err)

	require.Len(t, parsed.MatchRow, len(MatchesSchema))
	require.Equal(t, "m_1001", matchCol(t, parsed.MatchRow, "match_id"))
	require.Equal(t, "1.1", matchCol(t, parsed.MatchRow, "data_version"))
	require.Equal(t, int64(2), matchCol(t, parsed.MatchRow, "meta_revision"))
	require.Equal(t, "2024", matchCol(t, parsed.MatchRow, "season"))
	require.Equal(t, "2024-03-22", matchCol(t, parsed.MatchRow, "match_date"))
	require.Equal(t, "Knights", matchCol(t, parsed.MatchRow, "team1"))
	require.Equal(t, "Royals", matchCol(t, parsed.MatchRow, "team2"))
	require.Equal(t, "Knights", matchCol(t, parsed.MatchRow, "toss_winner"))
	require.Equal(t, int64(12), matchCol(t, parsed.MatchRow, "outcome_by_runs"))
	require.Nil(t, matchCol(t, parsed.MatchRow, "outcome_by_wickets"))
	require.Equal(t, "A Batter", matchCol(t, parsed.MatchRow, "player_of_match"))
	require.Equal(t, "Premier League", matchCol(t, parsed.MatchRow, "event_name"))
	require.Nil(t, matchCol(t, parsed.MatchRow, "event_stage"))
	require.Nil(t, matchCol(t, parsed.MatchRow, "supersubs_json"))

	require.JSONEq(t, `{"umpires":["U One","U Two"]}`,
		matchCol(t, parsed.MatchRow, "officials_json").(string))
	require.JSONEq(t, `["A Batter","B Batter"]`,
		matchCol(t, parsed.MatchRow, "players_team1_json").(string))
	require.JSONEq(t, `["C Bowler"]`,
		matchCol(t, parsed.MatchRow, "players_team2_json").(string))
	require.JSONEq(t, `{"A Batter":"abc123"}`,
		matchCol(t, parsed.MatchRow, "registry_json").(string))
}

func TestParseMatchFile_DeliveryRows(t *testing.T) {
	parsed, err := ParseMatchFile("m_1001", []byte(sampleMatchJSON))
	require.NoError(t, err)
	require.Len(t, parsed.DeliveryRows, 4)

	boundary := parsed.DeliveryRows[0]
	require.Equal(t, "m_1001", deliveryCol(t, boundary, "match_id"))
	require.Equal(t, int64(1), deliveryCol(t, boundary, "innings"))
	require.Equal(t, "Knights", deliveryCol(t, boundary, "batting_team"))
	require.Equal(t, false, deliveryCol(t, boundary, "is_super_over"))
	require.Equal(t, int64(0), deliveryCol(t, boundary, "over_num"))
	require.Equal(t, int64(1), deliveryCol(t, boundary, "ball_num"))
	require.Equal(t, int64(4), deliveryCol(t, boundary, "batter_runs"))
	require.Equal(t, false, deliveryCol(t, boundary, "is_wicket"))
	require.Nil(t, deliveryCol(t, boundary, "extras_wides"))

	wide := parsed.DeliveryRows[1]
	require.Equal(t, int64(2), deliveryCol(t, wide, "ball_num"))
	require.Equal(t, int64(1), deliveryCol(t, wide, "extras_wides"))
	require.Equal(t, int64(1), deliveryCol(t, wide, "total_runs"))

	wicket := parsed.DeliveryRows[2]
	require.Equal(t, true, deliveryCol(t, wicket, "is_wicket"))
	require.Equal(t, "A Batter", deliveryCol(t, wicket, "wicket_player_out"))
	require.Equal(t, "caught", deliveryCol(t, wicket, "wicket_kind"))
	require.Equal(t, "D Fielder", deliveryCol(t, wicket, "wicket_fielder1"))
	require.Nil(t, deliveryCol(t, wicket, "wicket_fielder2"))
	require.Equal(t, "Knights", deliveryCol(t, wicket, "review_by"))
	require.Equal(t, "upheld", deliveryCol(t, wicket, "review_decision"))

	superOver := parsed.DeliveryRows[3]
	require.Equal(t, int64(2), deliveryCol(t, superOver, "innings"))
	require.Equal(t, true, deliveryCol(t, superOver, "is_super_over"))
	require.Equal(t, int64(6), deliveryCol(t, superOver, "batter_runs"))
}

func TestParseMatchFile_SeasonString(t *testing.T) {
	doc := `{"meta": {"created": "2008-05-01"}, "info": {"season": "2007/08", "teams": ["A", "B"]}, "innings": []}`
	parsed, err := ParseMatchFile("m_2", []byte(doc))
	require.NoError(t, err)
	require.Equal(t, "2007/08", matchCol(t, parsed.MatchRow, "season"))
	require.Empty(t, parsed.DeliveryRows)
}

func TestParseMatchFile_RejectsMalformedJSON(t *testing.T) {
	_, err := ParseMatchFile("m_3", []byte(`{"info": `))
	require.Error(t, err)
	require.Contains(t, err.Error(), "m_3")
}
