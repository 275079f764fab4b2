package espn

import (
	"fmt"
	"regexp"
	"strconv"

	sonic "github.com/bytedance/sonic"

	"github.com/midwicket/crickstack/internal/enrichment"
)

var nextDataRegex = regexp.MustCompile(
	`(?s)<script id="__NEXT_DATA__" type="application/json">(.*?)</script>`)

// roleNames maps ESPN playerRoleType codes to readable roles.
var roleNames = map[string]string{
	"C":   "captain",
	"WK":  "wicketkeeper",
	"CWK": "captain_wicketkeeper",
	"P":   "player",
}

type nextDataDocument struct {
	Props struct {
		AppPageProps struct {
			Data pageData `json:"data"`
		} `json:"appPageProps"`
	} `json:"props"`
}

// pageData appears either directly under appPageProps.data or nested one
// level deeper under another "data" key, depending on the page variant.
type pageData struct {
	Data *struct {
		Match   *matchNode   `json:"match"`
		Content *contentNode `json:"content"`
	} `json:"data"`
	Match   *matchNode   `json:"match"`
	Content *contentNode `json:"content"`
}

func (p pageData) match() *matchNode {
	if p.Data != nil && p.Data.Match != nil {
		return p.Data.Match
	}
	return p.Match
}

func (p pageData) content() *contentNode {
	if p.Data != nil && p.Data.Content != nil {
		return p.Data.Content
	}
	return p.Content
}

type matchNode struct {
	ObjectID   int64  `json:"objectId"`
	Season     any    `json:"season"`
	Title      string `json:"title"`
	Slug       string `json:"slug"`
	StatusText string `json:"statusText"`
	Floodlit   string `json:"floodlit"`
	StartDate  string `json:"startDate"`
	StartTime  string `json:"startTime"`
	Series     *struct {
		ObjectID int64  `json:"objectId"`
		Name     string `json:"name"`
		Slug     string `json:"slug"`
	} `json:"series"`
}

type contentNode struct {
	MatchPlayers struct {
		TeamPlayers []struct {
			Team struct {
				ObjectID int64  `json:"objectId"`
				Name     string `json:"name"`
				LongName string `json:"longName"`
			} `json:"team"`
			Players []struct {
				Player struct {
					ObjectID int64  `json:"objectId"`
					Name     string `json:"name"`
					LongName string `json:"longName"`
				} `json:"player"`
				PlayerRoleType string `json:"playerRoleType"`
			} `json:"players"`
		} `json:"teamPlayers"`
	} `json:"matchPlayers"`
}

// extractNextData pulls the embedded page-state JSON out of a rendered
// ESPN page.
func extractNextData(html string) ([]byte, error) {
	groups := nextDataRegex.FindStringSubmatch(html)
	if groups == nil {
		return nil, fmt.Errorf("no __NEXT_DATA__ script in page")
	}
	return []byte(groups[1]), nil
}

func seriesFromNextData(nextData []byte, matchID string) (*enrichment.Discovery, error) {
	var doc nextDataDocument
	if err := sonic.Unmarshal(nextData, &doc); err != nil {
		return nil, fmt.Errorf("decode page state: %w", err)
	}

	match := doc.Props.AppPageProps.Data.match()
	if match == nil || match.Series == nil || match.Series.ObjectID == 0 {
		return nil, fmt.Errorf("page state has no series info")
	}

	return &enrichment.Discovery{
		SeriesID:       match.Series.ObjectID,
		SeriesName:     match.Series.Name,
		Season:         seasonString(match.Season),
		Slug:           match.Series.Slug,
		DiscoveredFrom: matchID,
	}, nil
}

func matchFromNextData(nextData []byte) (enrichment.MatchEnrichment, error) {
	var doc nextDataDocument
	if err := sonic.Unmarshal(nextData, &doc); err != nil {
		return enrichment.MatchEnrichment{}, fmt.Errorf("decode page state: %w", err)
	}

	match := doc.Props.AppPageProps.Data.match()
	if match == nil {
		return enrichment.MatchEnrichment{}, fmt.Errorf("page state has no match info")
	}

	item := enrichment.MatchEnrichment{
		ESPNMatchID: match.ObjectID,
		Floodlit:    match.Floodlit,
		StartDate:   match.StartDate,
		StartTime:   match.StartTime,
		Season:      seasonString(match.Season),
		Title:       match.Title,
		Slug:        match.Slug,
		StatusText:  match.StatusText,
	}
	if match.Series != nil {
		item.ESPNSeriesID = match.Series.ObjectID
	}

	squads := buildSquads(doc.Props.AppPageProps.Data.content())
	if len(squads) > 0 {
		item.Team1Name = squads[0].TeamName
		item.Team1ESPNID = squads[0].ESPNTeamID
		item.Team1Captain, item.Team1Keeper = captainAndKeeper(squads[0])
	}
	if len(squads) > 1 {
		item.Team2Name = squads[1].TeamName
		item.Team2ESPNID = squads[1].ESPNTeamID
		item.Team2Captain, item.Team2Keeper = captainAndKeeper(squads[1])
	}

	teamsJSON, err := sonic.MarshalString(squads)
	if err != nil {
		return enrichment.MatchEnrichment{}, fmt.Errorf("encode squads: %w", err)
	}
	item.TeamsJSON = teamsJSON
	return item, nil
}

func buildSquads(content *contentNode) []enrichment.TeamSquad {
	squads := []enrichment.TeamSquad{}
	if content == nil {
		return squads
	}
	for _, tp := range content.MatchPlayers.TeamPlayers {
		squad := enrichment.TeamSquad{
			TeamName:     tp.Team.Name,
			TeamLongName: tp.Team.LongName,
			ESPNTeamID:   tp.Team.ObjectID,
			Players:      []enrichment.SquadPlayer{},
		}
		for _, p := range tp.Players {
			code := p.PlayerRoleType
			if code == "" {
				code = "P"
			}
			role, ok := roleNames[code]
			if !ok {
				role = "player"
			}
			squad.Players = append(squad.Players, enrichment.SquadPlayer{
				ESPNPlayerID:   p.Player.ObjectID,
				PlayerName:     p.Player.Name,
				PlayerLongName: p.Player.LongName,
				RoleCode:       code,
				Role:           role,
				IsCaptain:      code == "C" || code == "CWK",
				IsKeeper:       code == "WK" || code == "CWK",
			})
		}
		squads = append(squads, squad)
	}
	return squads
}

func captainAndKeeper(squad enrichment.TeamSquad) (captain, keeper string) {
	for _, p := range squad.Players {
		if p.IsCaptain && captain == "" {
			captain = p.PlayerName
		}
		if p.IsKeeper && keeper == "" {
			keeper = p.PlayerName
		}
	}
	return captain, keeper
}

func seasonString(v any) string {
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
