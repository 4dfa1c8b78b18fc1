// Package bgg is a thin client for the BoardGameGeek XML API 2, used
// to source catalog entries and power the admin game search.
package bgg

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"boardcafe/web/internal/models"
)

const DefaultBaseURL = "https://boardgamegeek.com/xmlapi2"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchResult is one hit from the search endpoint; only the id and
// primary name are returned there.
type SearchResult struct {
	ID            string
	Name          string
	YearPublished string
}

// GameDetails is the hydrated form of one thing-endpoint item.
type GameDetails struct {
	BGGID         string
	Name          string
	YearPublished int
	MinPlayers    int
	MaxPlayers    int
	PlayingTime   int
	MinPlayTime   int
	MaxPlayTime   int
	MinAge        int
	Description   string
	Thumbnail     string
	Image         string
	Categories    []string
	Mechanics     []string
	Designers     []string
	Artists       []string
	Publishers    []string
	AverageRating string
	NumRatings    string
}

// ToModel converts fetched details into a catalog row, encoding the
// list fields as JSON arrays the way the catalog stores them.
func (d *GameDetails) ToModel() *models.BoardGame {
	return &models.BoardGame{
		BGGID:         d.BGGID,
		Name:          d.Name,
		YearPublished: d.YearPublished,
		MinPlayers:    d.MinPlayers,
		MaxPlayers:    d.MaxPlayers,
		PlayingTime:   d.PlayingTime,
		MinPlayTime:   d.MinPlayTime,
		MaxPlayTime:   d.MaxPlayTime,
		Age:           d.MinAge,
		Description:   d.Description,
		Thumbnail:     d.Thumbnail,
		Image:         d.Image,
		Categories:    encodeList(d.Categories),
		Mechanics:     encodeList(d.Mechanics),
		Designers:     encodeList(d.Designers),
		Artists:       encodeList(d.Artists),
		Publishers:    encodeList(d.Publishers),
	}
}

func encodeList(values []string) string {
	if values == nil {
		values = []string{}
	}
	encoded, _ := json.Marshal(values)
	return string(encoded)
}

type nameEntry struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type valueAttr struct {
	Value string `xml:"value,attr"`
}

type searchItems struct {
	Items []struct {
		ID            string      `xml:"id,attr"`
		Names         []nameEntry `xml:"name"`
		YearPublished valueAttr   `xml:"yearpublished"`
	} `xml:"item"`
}

type thingItems struct {
	Items []struct {
		ID            string      `xml:"id,attr"`
		Thumbnail     string      `xml:"thumbnail"`
		Image         string      `xml:"image"`
		Description   string      `xml:"description"`
		Names         []nameEntry `xml:"name"`
		YearPublished valueAttr `xml:"yearpublished"`
		MinPlayers    valueAttr `xml:"minplayers"`
		MaxPlayers    valueAttr `xml:"maxplayers"`
		PlayingTime   valueAttr `xml:"playingtime"`
		MinPlayTime   valueAttr `xml:"minplaytime"`
		MaxPlayTime   valueAttr `xml:"maxplaytime"`
		MinAge        valueAttr `xml:"minage"`
		Links         []struct {
			Type  string `xml:"type,attr"`
			Value string `xml:"value,attr"`
		} `xml:"link"`
		Statistics struct {
			Ratings struct {
				Average    valueAttr `xml:"average"`
				UsersRated valueAttr `xml:"usersrated"`
			} `xml:"ratings"`
		} `xml:"statistics"`
	} `xml:"item"`
}

// Search queries the search endpoint for board games. exact narrows
// matching to the precise title, as the catalog importer wants.
func (c *Client) Search(ctx context.Context, query string, exact bool) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("type", "boardgame")
	if exact {
		params.Set("exact", "1")
	}

	var parsed searchItems
	if err := c.get(ctx, "/search?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		results = append(results, SearchResult{
			ID:            item.ID,
			Name:          primaryName(item.Names),
			YearPublished: item.YearPublished.Value,
		})
	}
	return results, nil
}

// Thing fetches full details (including rating stats) for one game id.
func (c *Client) Thing(ctx context.Context, id string) (*GameDetails, error) {
	params := url.Values{}
	params.Set("id", id)
	params.Set("stats", "1")

	var parsed thingItems
	if err := c.get(ctx, "/thing?"+params.Encode(), &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Items) == 0 {
		return nil, fmt.Errorf("bgg: no item for id %s", id)
	}

	item := parsed.Items[0]
	details := &GameDetails{
		BGGID:         item.ID,
		Name:          primaryName(item.Names),
		YearPublished: atoiOrZero(item.YearPublished.Value),
		MinPlayers:    atoiOrZero(item.MinPlayers.Value),
		MaxPlayers:    atoiOrZero(item.MaxPlayers.Value),
		PlayingTime:   atoiOrZero(item.PlayingTime.Value),
		MinPlayTime:   atoiOrZero(item.MinPlayTime.Value),
		MaxPlayTime:   atoiOrZero(item.MaxPlayTime.Value),
		MinAge:        atoiOrZero(item.MinAge.Value),
		Description:   item.Description,
		Thumbnail:     item.Thumbnail,
		Image:         item.Image,
		AverageRating: item.Statistics.Ratings.Average.Value,
		NumRatings:    item.Statistics.Ratings.UsersRated.Value,
	}
	for _, link := range item.Links {
		switch link.Type {
		case "boardgamecategory":
			details.Categories = append(details.Categories, link.Value)
		case "boardgamemechanic":
			details.Mechanics = append(details.Mechanics, link.Value)
		case "boardgamedesigner":
			details.Designers = append(details.Designers, link.Value)
		case "boardgameartist":
			details.Artists = append(details.Artists, link.Value)
		case "boardgamepublisher":
			details.Publishers = append(details.Publishers, link.Value)
		}
	}
	return details, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("bgg request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bgg returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(body, out); err != nil {
		return fmt.Errorf("bgg response parse failed: %w", err)
	}
	return nil
}

func primaryName(names []nameEntry) string {
	for _, n := range names {
		if n.Type == "primary" {
			return n.Value
		}
	}
	if len(names) > 0 {
		return names[0].Value
	}
	return ""
}

func atoiOrZero(s string) int {
	var n int
	fmt.Sscanf(s, "%d", &n)
	return n
}
