package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/fosys/fosys-client/internal/client/broadcast"
	"github.com/fosys/fosys-client/internal/client/models"
	"github.com/fosys/fosys-client/internal/client/tasks"
)

// Watch subscribes to the realtime task feed and to change signals from
// other running instances. Each update prints the fresh task list.
func (a *App) Watch(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	if a.subscriber == nil {
		log.Println("Realtime feed is not configured")
		return fmt.Errorf("realtime feed not configured")
	}
	if a.listener != nil {
		fmt.Println("Already watching")
		return nil
	}

	listener := tasks.NewListener(a.taskSvc, a.subscriber, a.log, func(list []models.Task) {
		printlnFn("Tasks changed:")
		for _, task := range list {
			printlnFn(formatTask(task))
		}
	})
	if err := listener.Start(ctx); err != nil {
		log.Println(err.Error())
		return err
	}
	a.listener = listener

	if a.caster != nil {
		unsubscribe, err := a.caster.Subscribe(ctx, func(env broadcast.Envelope) {
			log.Printf("Change signal from another instance: %s %s", env.Entity, env.Op)
			listener.Refresh()
		})
		if err != nil {
			log.Println(err.Error())
		} else {
			a.unsubscribe = unsubscribe
		}
	}

	fmt.Println("Watching for task changes")
	return nil
}

// Unwatch stops the realtime feed.
func (a *App) Unwatch(ctx context.Context) error {
	if a.listener == nil {
		fmt.Println("Not watching")
		return nil
	}
	a.listener.Stop()
	a.listener = nil
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
	fmt.Println("Stopped watching")
	return nil
}
