// Package main provides the playlist management CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"

	"github.com/immortal-forest/Tune-V2/internal/domain/playlist"
	"github.com/immortal-forest/Tune-V2/internal/domain/track"
	"github.com/immortal-forest/Tune-V2/internal/infra/store"
)

var (
	app    = kingpin.New("playlistctl", "Tune playlist management client")
	dbPath = app.Flag("db", "Path to the playlist database (or set DATABASE_PATH env)").
		Envar("DATABASE_PATH").Default("tune.db").String()

	// create command
	createCmd    = app.Command("create", "Create a playlist")
	createName   = createCmd.Arg("name", "Playlist name").Required().String()
	createMember = createCmd.Flag("member", "Owning member ID").Default("").String()

	// list command
	listCmd = app.Command("list", "List all playlists").Alias("ls")

	// show command
	showCmd  = app.Command("show", "Show a playlist and its tracks")
	showName = showCmd.Arg("playlist", "Playlist ID or name").Required().String()

	// add command
	addCmd    = app.Command("add", "Add a track to a playlist")
	addName   = addCmd.Arg("playlist", "Playlist ID or name").Required().String()
	addTitle  = addCmd.Arg("title", "Track title").Required().String()
	addURL    = addCmd.Arg("url", "Track URL").Required().String()
	addSource = addCmd.Flag("source", "Track source (youtube/soundcloud)").Default("youtube").String()

	// remove command
	removeCmd   = app.Command("remove", "Remove a track from a playlist").Alias("rm")
	removeName  = removeCmd.Arg("playlist", "Playlist ID or name").Required().String()
	removeIndex = removeCmd.Arg("index", "Track index").Required().Int()

	// delete command
	deleteCmd  = app.Command("delete", "Delete a playlist")
	deleteName = deleteCmd.Arg("playlist", "Playlist ID or name").Required().String()
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	ctx := context.Background()
	st, err := store.Open(ctx, *dbPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	switch command {
	case createCmd.FullCommand():
		create(ctx, st)
	case listCmd.FullCommand():
		list(ctx, st)
	case showCmd.FullCommand():
		show(ctx, st)
	case addCmd.FullCommand():
		add(ctx, st)
	case removeCmd.FullCommand():
		remove(ctx, st)
	case deleteCmd.FullCommand():
		del(ctx, st)
	}
}

func create(ctx context.Context, st *store.Store) {
	p, err := st.CreatePlaylist(ctx, *createName, *createMember)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Created playlist %q (%s)\n", p.Name, p.ID)
}

func list(ctx context.Context, st *store.Store) {
	playlists, err := st.List(ctx)
	if err != nil {
		fail(err)
	}
	if len(playlists) == 0 {
		fmt.Println("No playlists.")
		return
	}
	for _, p := range playlists {
		fmt.Printf("%-36s  %-24s  modified %s\n", p.ID, p.Name, p.ModifiedAt.Format(time.DateTime))
	}
}

func show(ctx context.Context, st *store.Store) {
	p, err := st.Find(ctx, *showName)
	if err != nil {
		fail(err)
	}
	fmt.Printf("Playlist: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Created:  %s\n", p.CreatedAt.Format(time.DateTime))
	fmt.Printf("Modified: %s\n", p.ModifiedAt.Format(time.DateTime))
	fmt.Printf("Tracks:   %d\n", p.Len())
	for _, item := range p.Items {
		fmt.Printf("  %3d. %-48s %s [%s]\n", item.Index, item.Title, item.URL, item.Source)
	}
}

func add(ctx context.Context, st *store.Store) {
	item := playlist.Item{
		Title:  *addTitle,
		URL:    *addURL,
		Source: track.SourceFromName(*addSource),
	}
	if err := st.AddItem(ctx, *addName, item); err != nil {
		fail(err)
	}
	fmt.Printf("Added %q to %s\n", item.Title, *addName)
}

func remove(ctx context.Context, st *store.Store) {
	if err := st.RemoveItem(ctx, *removeName, *removeIndex); err != nil {
		fail(err)
	}
	fmt.Printf("Removed track %d from %s\n", *removeIndex, *removeName)
}

func del(ctx context.Context, st *store.Store) {
	if err := st.DeletePlaylist(ctx, *deleteName); err != nil {
		fail(err)
	}
	fmt.Printf("Deleted playlist %s\n", *deleteName)
}

func fail(err error) {
	fmt.Printf("Error: %v\n", err)
	os.Exit(1)
}
