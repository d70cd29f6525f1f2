package pollfeedservice

import (
	"log/slog"

	httpadapter "pollfeed/contexts/social-polling/poll-feed-service/adapters/http"
	"pollfeed/contexts/social-polling/poll-feed-service/adapters/memory"
	"pollfeed/contexts/social-polling/poll-feed-service/application/commands"
	"pollfeed/contexts/social-polling/poll-feed-service/application/queries"
	"pollfeed/contexts/social-polling/poll-feed-service/domain/entities"
	"pollfeed/contexts/social-polling/poll-feed-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Polls    ports.PollRepository
	Votes    ports.VoteLedger
	Likes    ports.LikeLedger
	Comments ports.CommentLog
	Feed     ports.FeedRepository
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Polls: commands.PollUseCase{
				Polls:  deps.Polls,
				Clock:  deps.Clock,
				IDGen:  deps.IDGen,
				Logger: deps.Logger,
			},
			Votes: commands.VoteUseCase{
				Polls:  deps.Polls,
				Votes:  deps.Votes,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			Likes: commands.LikeUseCase{
				Polls:  deps.Polls,
				Likes:  deps.Likes,
				Clock:  deps.Clock,
				Logger: deps.Logger,
			},
			Comments: commands.CommentUseCase{
				Polls:    deps.Polls,
				Comments: deps.Comments,
				Clock:    deps.Clock,
				IDGen:    deps.IDGen,
				Logger:   deps.Logger,
			},
			Feed: queries.FeedUseCase{
				Feed:   deps.Feed,
				Logger: deps.Logger,
			},
			Listing: queries.CommentsUseCase{
				Polls:    deps.Polls,
				Comments: deps.Comments,
				Logger:   deps.Logger,
			},
			Logger: deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Poll, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Polls:    store,
		Votes:    store,
		Likes:    store,
		Comments: store,
		Feed:     store,
		Clock:    store,
		IDGen:    store,
		Logger:   logger,
	})
	module.Store = store
	return module
}
