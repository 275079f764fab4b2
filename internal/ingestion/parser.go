package ingestion

import (
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"

	"github.com/midwicket/crickstack/internal/bronze"
)

// MatchesSchema is the bronze_matches column layout. The migration DDL and
// every loader batch declare these exact columns.
var MatchesSchema = bronze.Schema{
	{Name: "match_id", Type: bronze.TypeText},
	{Name: "data_version", Type: bronze.TypeText},
	{Name: "meta_created", Type: bronze.TypeText},
	{Name: "meta_revision", Type: bronze.TypeInteger},
	{Name: "season", Type: bronze.TypeText},
	{Name: "match_date", Type: bronze.TypeText},
	{Name: "city", Type: bronze.TypeText},
	{Name: "venue", Type: bronze.TypeText},
	{Name: "team1", Type: bronze.TypeText},
	{Name: "team2", Type: bronze.TypeText},
	{Name: "team_type", Type: bronze.TypeText},
	{Name: "match_type", Type: bronze.TypeText},
	{Name: "match_type_number", Type: bronze.TypeInteger},
	{Name: "gender", Type: bronze.TypeText},
	{Name: "overs", Type: bronze.TypeInteger},
	{Name: "balls_per_over", Type: bronze.TypeInteger},
	{Name: "toss_winner", Type: bronze.TypeText},
	{Name: "toss_decision", Type: bronze.TypeText},
	{Name: "toss_uncontested", Type: bronze.TypeBoolean},
	{Name: "outcome_winner", Type: bronze.TypeText},
	{Name: "outcome_by_runs", Type: bronze.TypeInteger},
	{Name: "outcome_by_wickets", Type: bronze.TypeInteger},
	{Name: "outcome_method", Type: bronze.TypeText},
	{Name: "outcome_result", Type: bronze.TypeText},
	{Name: "outcome_eliminator", Type: bronze.TypeText},
	{Name: "player_of_match", Type: bronze.TypeText},
	{Name: "event_name", Type: bronze.TypeText},
	{Name: "event_match_number", Type: bronze.TypeInteger},
	{Name: "event_stage", Type: bronze.TypeText},
	{Name: "event_group", Type: bronze.TypeText},
	{Name: "officials_json", Type: bronze.TypeText},
	{Name: "supersubs_json", Type: bronze.TypeText},
	{Name: "missing_json", Type: bronze.TypeText},
	{Name: "players_team1_json", Type: bronze.TypeText},
	{Name: "players_team2_json", Type: bronze.TypeText},
	{Name: "registry_json", Type: bronze.TypeText},
}

// DeliveriesSchema is the bronze_deliveries column layout.
var DeliveriesSchema = bronze.Schema{
	{Name: "match_id", Type: bronze.TypeText},
	{Name: "innings", Type: bronze.TypeInteger},
	{Name: "batting_team", Type: bronze.TypeText},
	{Name: "is_super_over", Type: bronze.TypeBoolean},
	{Name: "over_num", Type: bronze.TypeInteger},
	{Name: "ball_num", Type: bronze.TypeInteger},
	{Name: "batter", Type: bronze.TypeText},
	{Name: "bowler", Type: bronze.TypeText},
	{Name: "non_striker", Type: bronze.TypeText},
	{Name: "batter_runs", Type: bronze.TypeInteger},
	{Name: "extras_runs", Type: bronze.TypeInteger},
	{Name: "total_runs", Type: bronze.TypeInteger},
	{Name: "non_boundary", Type: bronze.TypeBoolean},
	{Name: "extras_wides", Type: bronze.TypeInteger},
	{Name: "extras_noballs", Type: bronze.TypeInteger},
	{Name: "extras_byes", Type: bronze.TypeInteger},
	{Name: "extras_legbyes", Type: bronze.TypeInteger},
	{Name: "extras_penalty", Type: bronze.TypeInteger},
	{Name: "is_wicket", Type: bronze.TypeBoolean},
	{Name: "wicket_player_out", Type: bronze.TypeText},
	{Name: "wicket_kind", Type: bronze.TypeText},
	{Name: "wicket_fielder1", Type: bronze.TypeText},
	{Name: "wicket_fielder2", Type: bronze.TypeText},
	{Name: "review_by", Type: bronze.TypeText},
	{Name: "review_umpire", Type: bronze.TypeText},
	{Name: "review_batter", Type: bronze.TypeText},
	{Name: "review_decision", Type: bronze.TypeText},
	{Name: "review_type", Type: bronze.TypeText},
	{Name: "review_umpires_call", Type: bronze.TypeBoolean},
	{Name: "replacements_json", Type: bronze.TypeText},
}

type matchDocument struct {
	Meta struct {
		DataVersion any    `json:"data_version"`
		Created     string `json:"created"`
		Revision    *int64 `json:"revision"`
	} `json:"meta"`
	Info    matchInfo       `json:"info"`
	Innings []inningsRecord `json:"innings"`
}

type matchInfo struct {
	Season          any                 `json:"season"`
	Dates           []string            `json:"dates"`
	City            *string             `json:"city"`
	Venue           *string             `json:"venue"`
	Teams           []string            `json:"teams"`
	TeamType        *string             `json:"team_type"`
	MatchType       *string             `json:"match_type"`
	MatchTypeNumber *int64              `json:"match_type_number"`
	Gender          *string             `json:"gender"`
	Overs           *int64              `json:"overs"`
	BallsPerOver    *int64              `json:"balls_per_over"`
	Toss            tossInfo            `json:"toss"`
	Outcome         outcomeInfo         `json:"outcome"`
	PlayerOfMatch   []string            `json:"player_of_match"`
	Event           eventInfo           `json:"event"`
	Officials       any                 `json:"officials"`
	Supersubs       any                 `json:"supersubs"`
	Missing         any                 `json:"missing"`
	Players         map[string][]string `json:"players"`
	Registry        struct {
		People map[string]string `json:"people"`
	} `json:"registry"`
}

type tossInfo struct {
	Winner      *string `json:"winner"`
	Decision    *string `json:"decision"`
	Uncontested *bool   `json:"uncontested"`
}

type outcomeInfo struct {
	Winner *string `json:"winner"`
	By     struct {
		Runs    *int64 `json:"runs"`
		Wickets *int64 `json:"wickets"`
	} `json:"by"`
	Method     *string `json:"method"`
	Result     *string `json:"result"`
	Eliminator *string `json:"eliminator"`
}

type eventInfo struct {
	Name        *string `json:"name"`
	MatchNumber *int64  `json:"match_number"`
	Stage       *string `json:"stage"`
	Group       any     `json:"group"`
}

type inningsRecord struct {
	Team      *string      `json:"team"`
	SuperOver bool         `json:"super_over"`
	Overs     []overRecord `json:"overs"`
}

type overRecord struct {
	Over       int64            `json:"over"`
	Deliveries []deliveryRecord `json:"deliveries"`
}

type deliveryRecord struct {
	Batter     string `json:"batter"`
	Bowler     string `json:"bowler"`
	NonStriker string `json:"non_striker"`
	Runs       struct {
		Batter      int64 `json:"batter"`
		Extras      int64 `json:"extras"`
		Total       int64 `json:"total"`
		NonBoundary *bool `json:"non_boundary"`
	} `json:"runs"`
	Extras struct {
		Wides   *int64 `json:"wides"`
		Noballs *int64 `json:"noballs"`
		Byes    *int64 `json:"byes"`
		Legbyes *int64 `json:"legbyes"`
		Penalty *int64 `json:"penalty"`
	} `json:"extras"`
	Wickets []struct {
		PlayerOut string `json:"player_out"`
		Kind      string `json:"kind"`
		Fielders  []struct {
			Name string `json:"name"`
		} `json:"fielders"`
	} `json:"wickets"`
	Review *struct {
		By          *string `json:"by"`
		Umpire      *string `json:"umpire"`
		Batter      *string `json:"batter"`
		Decision    *string `json:"decision"`
		Type        *string `json:"type"`
		UmpiresCall *bool   `json:"umpires_call"`
	} `json:"review"`
	Replacements any `json:"replacements"`
}

// ParsedMatch is the bronze projection of one Cricsheet file: a single
// match row plus its ball-by-ball delivery rows, value-ordered to
// MatchesSchema and DeliveriesSchema.
type ParsedMatch struct {
	MatchRow     []any
	DeliveryRows [][]any
}

// ParseMatchFile decodes one Cricsheet match JSON document. matchID is the
// file stem, which Cricsheet guarantees unique per match.
func ParseMatchFile(matchID string, data []byte) (ParsedMatch, error) {
	var doc matchDocument
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return ParsedMatch{}, fmt.Errorf("decode match %s: %w", matchID, err)
	}

	info := doc.Info

	var team1, team2 any
	if len(info.Teams) > 0 {
		team1 = info.Teams[0]
	}
	if len(info.Teams) > 1 {
		team2 = info.Teams[1]
	}

	var matchDate any
	if len(info.Dates) > 0 {
		matchDate = info.Dates[0]
	}
	var playerOfMatch any
	if len(info.PlayerOfMatch) > 0 {
		playerOfMatch = info.PlayerOfMatch[0]
	}

	playersTeam1 := []string{}
	playersTeam2 := []string{}
	if len(info.Teams) > 0 {
		playersTeam1 = info.Players[info.Teams[0]]
	}
	if len(info.Teams) > 1 {
		playersTeam2 = info.Players[info.Teams[1]]
	}

	matchRow := []any{
		matchID,
		anyToText(doc.Meta.DataVersion),
		textOrNil(doc.Meta.Created),
		int64OrNil(doc.Meta.Revision),
		seasonText(info.Season),
		matchDate,
		strOrNil(info.City),
		strOrNil(info.Venue),
		team1,
		team2,
		strOrNil(info.TeamType),
		strOrNil(info.MatchType),
		int64OrNil(info.MatchTypeNumber),
		strOrNil(info.Gender),
		int64OrNil(info.Overs),
		int64OrNil(info.BallsPerOver),
		strOrNil(info.Toss.Winner),
		strOrNil(info.Toss.Decision),
		boolOrNil(info.Toss.Uncontested),
		strOrNil(info.Outcome.Winner),
		int64OrNil(info.Outcome.By.Runs),
		int64OrNil(info.Outcome.By.Wickets),
		strOrNil(info.Outcome.Method),
		strOrNil(info.Outcome.Result),
		strOrNil(info.Outcome.Eliminator),
		playerOfMatch,
		strOrNil(info.Event.Name),
		int64OrNil(info.Event.MatchNumber),
		strOrNil(info.Event.Stage),
		anyToText(info.Event.Group),
		jsonOrNil(info.Officials),
		jsonOrNil(info.Supersubs),
		jsonOrNil(info.Missing),
		mustJSON(playersOrEmpty(playersTeam1)),
		mustJSON(playersOrEmpty(playersTeam2)),
		mustJSON(registryOrEmpty(info.Registry.People)),
	}

	var deliveryRows [][]any
	for inningsIdx, innings := range doc.Innings {
		for _, over := range innings.Overs {
			for ballIdx, delivery := range over.Deliveries {
				row := buildDeliveryRow(matchID, int64(inningsIdx+1), innings, over.Over, int64(ballIdx+1), delivery)
				deliveryRows = append(deliveryRows, row)
			}
		}
	}

	return ParsedMatch{MatchRow: matchRow, DeliveryRows: deliveryRows}, nil
}

func buildDeliveryRow(matchID string, inningsNum int64, innings inningsRecord, overNum, ballNum int64, d deliveryRecord) []any {
	var wicketPlayerOut, wicketKind, fielder1, fielder2 any
	isWicket := len(d.Wickets) > 0
	if isWicket {
		w := d.Wickets[0]
		wicketPlayerOut = w.PlayerOut
		wicketKind = w.Kind
		if len(w.Fielders) > 0 {
			fielder1 = w.Fielders[0].Name
		}
		if len(w.Fielders) > 1 {
			fielder2 = w.Fielders[1].Name
		}
	}

	var reviewBy, reviewUmpire, reviewBatter, reviewDecision, reviewType, reviewUmpiresCall any
	if d.Review != nil {
		reviewBy = strOrNil(d.Review.By)
		reviewUmpire = strOrNil(d.Review.Umpire)
		reviewBatter = strOrNil(d.Review.Batter)
		reviewDecision = strOrNil(d.Review.Decision)
		reviewType = strOrNil(d.Review.Type)
		reviewUmpiresCall = boolOrNil(d.Review.UmpiresCall)
	}

	return []any{
		matchID,
		inningsNum,
		strOrNil(innings.Team),
		innings.SuperOver,
		overNum,
		ballNum,
		textOrNil(d.Batter),
		textOrNil(d.Bowler),
		textOrNil(d.NonStriker),
		d.Runs.Batter,
		d.Runs.Extras,
		d.Runs.Total,
		boolOrNil(d.Runs.NonBoundary),
		int64OrNil(d.Extras.Wides),
		int64OrNil(d.Extras.Noballs),
		int64OrNil(d.Extras.Byes),
		int64OrNil(d.Extras.Legbyes),
		int64OrNil(d.Extras.Penalty),
		isWicket,
		wicketPlayerOut,
		wicketKind,
		fielder1,
		fielder2,
		reviewBy,
		reviewUmpire,
		reviewBatter,
		reviewDecision,
		reviewType,
		reviewUmpiresCall,
		jsonOrNil(d.Replacements),
	}
}

// seasonText normalizes the season field, which Cricsheet writes either as
// a number (2024) or a string ("2007/08").
func seasonText(v any) any {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatInt(int64(s), 10)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func anyToText(v any) any {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func strOrNil(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func textOrNil(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func int64OrNil(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolOrNil(v *bool) any {
	if v == nil {
		return nil
	}
	return *v
}

func jsonOrNil(v any) any {
	if v == nil {
		return nil
	}
	return mustJSON(v)
}

func mustJSON(v any) string {
	encoded, err := sonic.MarshalString(v)
	if err != nil {
		return "null"
	}
	return encoded
}

func playersOrEmpty(players []string) []string {
	if players == nil {
		return []string{}
	}
	return players
}

func registryOrEmpty(people map[string]string) map[string]string {
	if people == nil {
		return map[string]string{}
	}
	return people
}
