package service

import (
	"github.com/itchan-dev/modcore/shared/domain"
	"github.com/itchan-dev/modcore/shared/errors"
)

// Boards is a BoardRegistry over the configured board list.
type Boards struct {
	byID map[domain.BoardID]domain.BoardConfig
}

func NewBoards(boards []domain.BoardConfig) *Boards {
	byID := make(map[domain.BoardID]domain.BoardConfig, len(boards))
	for _, b := range boards {
		byID[b.ID] = b
	}
	return &Boards{byID: byID}
}

func (b *Boards) Board(id domain.BoardID) (domain.BoardConfig, error) {
	board, ok := b.byID[id]
	if !ok {
		return domain.BoardConfig{}, &errors.NotFoundError{What: "Board", ID: id}
	}
	return board, nil
}
