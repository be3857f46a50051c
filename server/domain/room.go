package domain

type Room struct {
	ID   int64
	Name string
}
