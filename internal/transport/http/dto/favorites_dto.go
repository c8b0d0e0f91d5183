package dto

type AddFavoriteRequest struct {
	ID string `json:"id"`
}

type FavoriteExistsResponse struct {
	Exists bool `json:"exists"`
}
