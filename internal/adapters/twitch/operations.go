package twitch

import "github.com/bnema/dropwatch/internal/domain"

// Persisted query hashes accepted by gql.twitch.tv for the web client.
var (
	opInventory = domain.Operation{
		Name: "Inventory",
		Hash: "27f074f54ff74e0b05c8244ef2667180c2f911255e589ccd693a1a52ccca7367",
	}
	opClaimDrop = domain.Operation{
		Name: "DropsPage_ClaimDropRewards",
		Hash: "a455deea71bdc9015b78eb49f4acfbce8baa7ccbedd28e549bb025bd0f751930",
	}
	opGameDirectory = domain.Operation{
		Name: "DirectoryPage_Game",
		Hash: "df4bb6cc45055237bfaf3ead608bbafb79815c7100b6ee126719fac3762ddf8b",
		Variables: map[string]any{
			"sortTypeIsRecency": false,
			"includeIsDJ":       false,
		},
	}
	opStreamInfo = domain.Operation{
		Name: "VideoPlayerStreamInfoOverlayChannel",
		Hash: "a5f2e34d626a9f4f5c0204f910bab2194948a9502089be558bb6e779a9e1b3d2",
	}
	opPointsContext = domain.Operation{
		Name: "ChannelPointsContext",
		Hash: "1530a003a7d374b0380b79db0be0534f30ff46e61cffa2bc0e2468a909fbc024",
	}
	opClaimPoints = domain.Operation{
		Name: "ClaimCommunityPoints",
		Hash: "46aaeebe02c99afdf4fc97c7c0cba964124bf6b0af229395f1f6d1feed05b3d0",
	}
)

type gameData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (g *gameData) toDomain() *domain.Game {
	if g == nil {
		return nil
	}
	name := g.Name
	if name == "" {
		name = g.DisplayName
	}
	return &domain.Game{ID: g.ID, Name: name}
}

type tagData struct {
	ID string `json:"id"`
}

func hasDropsTag(tags []tagData) bool {
	for _, tag := range tags {
		if tag.ID == domain.DropsEnabledTag {
			return true
		}
	}
	return false
}

type inventoryData struct {
	CurrentUser *struct {
		Inventory struct {
			DropCampaignsInProgress []campaignData `json:"dropCampaignsInProgress"`
		} `json:"inventory"`
	} `json:"currentUser"`
}

type campaignData struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Status         string     `json:"status"`
	StartAt        string     `json:"startAt"`
	EndAt          string     `json:"endAt"`
	Game           *gameData  `json:"game"`
	TimeBasedDrops []dropData `json:"timeBasedDrops"`
}

type dropData struct {
	ID                     string `json:"id"`
	Name                   string `json:"name"`
	RequiredMinutesWatched int    `json:"requiredMinutesWatched"`
	Self                   *struct {
		CurrentMinutesWatched int    `json:"currentMinutesWatched"`
		IsClaimed             bool   `json:"isClaimed"`
		DropInstanceID        string `json:"dropInstanceID"`
	} `json:"self"`
}

type directoryData struct {
	Game *struct {
		Streams struct {
			Edges []struct {
				Node directoryStream `json:"node"`
			} `json:"edges"`
		} `json:"streams"`
	} `json:"game"`
}

type directoryStream struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	ViewersCount int       `json:"viewersCount"`
	Game         *gameData `json:"game"`
	Tags         []tagData `json:"tags"`
	Broadcaster  *struct {
		ID          string `json:"id"`
		Login       string `json:"login"`
		DisplayName string `json:"displayName"`
	} `json:"broadcaster"`
}

type streamInfoData struct {
	User *struct {
		ID                string `json:"id"`
		Login             string `json:"login"`
		DisplayName       string `json:"displayName"`
		BroadcastSettings struct {
			Title string    `json:"title"`
			Game  *gameData `json:"game"`
		} `json:"broadcastSettings"`
		Stream *struct {
			ID           string    `json:"id"`
			ViewersCount int       `json:"viewersCount"`
			Tags         []tagData `json:"tags"`
		} `json:"stream"`
	} `json:"user"`
}

type pointsContextData struct {
	Community *struct {
		ID      string `json:"id"`
		Channel *struct {
			ID   string `json:"id"`
			Self struct {
				CommunityPoints struct {
					Balance        int `json:"balance"`
					AvailableClaim *struct {
						ID string `json:"id"`
					} `json:"availableClaim"`
				} `json:"communityPoints"`
			} `json:"self"`
		} `json:"channel"`
	} `json:"community"`
}

type claimDropData struct {
	ClaimDropRewards *struct {
		Status string `json:"status"`
	} `json:"claimDropRewards"`
}
