package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lk16/holothello/internal/othello"
)

func main() {
	boardString := flag.String("board", "", "the board to show, 64 characters of X, O and .")
	toMove := flag.String("move", "black", "the side to move, its legal moves are marked")
	moves := flag.String("moves", "", "moves to replay from the start position, such as \"f5 d6 c3\", instead of -board")
	flag.Parse()

	if *moves != "" {
		record, err := othello.NewRecordFromString(*moves)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		fmt.Printf("Moves: %s\n", record)
		if record.IsFinished() {
			black, white := othello.Score(record.Board())
			fmt.Printf("Finished: %d - %d\n", black, white)
		}

		board := record.Board()
		board.Print(record.ToMove())
		return
	}

	board, err := othello.NewBoardFromString(*boardString)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	side, err := othello.ParseSide(*toMove)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	board.Print(side)
}
