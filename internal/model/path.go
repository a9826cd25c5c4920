package model

import "errors"

const (
	favoritesRoot       = "favorites"
	favoritesCollection = "userFavorites"
)

var ErrInvalidPath = errors.New("invalid document path")

// CollectionPath addresses favorites/{uid}/userFavorites.
type CollectionPath struct {
	UserID string
}

func FavoritesOf(userID string) CollectionPath {
	return CollectionPath{UserID: userID}
}

func (p CollectionPath) String() string {
	return favoritesRoot + "/" + p.UserID + "/" + favoritesCollection
}

func (p CollectionPath) Doc(key string) DocumentPath {
	return DocumentPath{UserID: p.UserID, MovieKey: key}
}

// DocumentPath addresses favorites/{uid}/userFavorites/{movieId}.
type DocumentPath struct {
	UserID   string
	MovieKey string
}

func (p DocumentPath) Collection() CollectionPath {
	return CollectionPath{UserID: p.UserID}
}

func (p DocumentPath) String() string {
	return p.Collection().String() + "/" + p.MovieKey
}
