package steam

// Game is one Steam-owned-game record as returned by GetOwnedGames.
// RTimeLastPlayed is a unix timestamp; 0 means never played / not reported.
type Game struct {
	AppID           int    `json:"appid"`
	Name            string `json:"name"`
	PlaytimeForever int    `json:"playtime_forever"` // total playtime in minutes
	ImgIconURL      string `json:"img_icon_url"`
	RTimeLastPlayed int64  `json:"rtime_last_played"`
}

// apiResponse is the envelope the Steam Web API wraps the game list in.
type apiResponse struct {
	Response struct {
		GameCount int    `json:"game_count"`
		Games     []Game `json:"games"`
	} `json:"response"`
}
