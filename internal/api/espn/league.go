package espn

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/omarshaarawi/leaguelegacy/internal/models"
)

// Seasons before this year are only served by the leagueHistory endpoint.
const firstCurrentAPISeason = 2018

const seasonViews = "mTeam,mMatchup,mSettings,mDraftDetail"

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) LeagueID() string {
	return a.client.Config.LeagueID
}

func (a *API) leagueEndpoint(year int) string {
	return fmt.Sprintf("/seasons/%d/segments/0/leagues/%s", year, a.client.Config.LeagueID)
}

// GetSeason fetches teams, members, schedule, settings and draft for one
// season in a single request.
func (a *API) GetSeason(ctx context.Context, year int) (*models.LeagueResponse, error) {
	params := map[string]string{
		"view": seasonViews,
	}

	if year >= firstCurrentAPISeason {
		var leagueResponse models.LeagueResponse
		if err := a.client.Get(ctx, a.leagueEndpoint(year), params, nil, &leagueResponse); err != nil {
			return nil, fmt.Errorf("fetching season %d: %w", year, err)
		}
		return &leagueResponse, nil
	}

	params["seasonId"] = strconv.Itoa(year)
	endpoint := fmt.Sprintf("/leagueHistory/%s", a.client.Config.LeagueID)

	var history []models.LeagueResponse
	if err := a.client.Get(ctx, endpoint, params, nil, &history); err != nil {
		return nil, fmt.Errorf("fetching season %d from league history: %w", year, err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("league history has no data for season %d", year)
	}
	return &history[0], nil
}

// ResolvePlayerNames looks up full names for the given player ids. Ids ESPN
// does not return are absent from the map.
func (a *API) ResolvePlayerNames(ctx context.Context, year int, ids []int) (map[int]string, error) {
	names := make(map[int]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	filters := map[string]interface{}{
		"players": map[string]interface{}{
			"filterIds": map[string]interface{}{
				"value": ids,
			},
			"limit": len(ids),
		},
	}

	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return nil, fmt.Errorf("error marshalling filters: %w", err)
	}

	headers := map[string]string{
		"x-fantasy-filter": string(filtersJSON),
	}

	var cards models.PlayerCardResponse
	params := map[string]string{"view": "kona_player_info"}
	if err := a.client.Get(ctx, a.leagueEndpoint(year), params, headers, &cards); err != nil {
		return nil, fmt.Errorf("fetching player names: %w", err)
	}

	for _, entry := range cards.Players {
		id := entry.ID
		if id == 0 {
			id = entry.Player.ID
		}
		if entry.Player.FullName != "" {
			names[id] = entry.Player.FullName
		}
	}
	return names, nil
}
