package evsync_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	evsync "github.com/dep2p/go-evsync"
)

func Example() {
	ctx := context.Background()

	rt, err := evsync.Start(ctx)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer rt.Close()

	sub, err := rt.Subscribe(evsync.IPEvent, 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer sub.Close()

	if err := sub.Wait(10 * time.Millisecond); errors.Is(err, evsync.ErrTimedOut) {
		fmt.Println("no event yet")
	}

	_ = rt.Post(ctx, evsync.IPEvent, 1, nil)
	if err := sub.Wait(time.Second); err == nil {
		fmt.Println("event received")
	}

	// Output:
	// no event yet
	// event received
}
