package database

var LikePattern = likePattern
