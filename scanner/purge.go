package scanner

import (
	"fmt"

	"dojima-bot/model"
	"dojima-bot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"
)

// MaxFetchLimit is the largest history page the Discord API returns.
const MaxFetchLimit = 100

// MessageFetcherDeleter abstracts the Discord history and bulk delete calls used by a purge.
type MessageFetcherDeleter interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
	ChannelMessagesBulkDelete(channelID string, messages []string, options ...discordgo.RequestOption) error
}

// DeletionCursor tracks one purge invocation. Remaining never increases and Before only
// moves further back in history. A zero Before starts from the newest message.
type DeletionCursor struct {
	ChannelID    string
	Before       snowflake.ID
	Remaining    int
	TotalDeleted int
	Pages        int
}

// BulkFilterDeleter deletes the most recent messages of one author from a channel.
type BulkFilterDeleter struct {
	API MessageFetcherDeleter
}

func NewBulkFilterDeleter(api MessageFetcherDeleter) *BulkFilterDeleter {
	return &BulkFilterDeleter{API: api}
}

// Purge walks the history of channelID backwards from before, deleting up to maxCount
// messages written by authorID. It stops when the target is met, when history runs out,
// or as soon as a fetched page holds no message by the author, even if older history
// remains. Deletions already made stay in place when a later call fails; the returned
// count always reflects them.
func (d *BulkFilterDeleter) Purge(channelID string, before snowflake.ID, authorID string, maxCount int) (int, error) {
	cursor := DeletionCursor{
		ChannelID: channelID,
		Before:    before,
		Remaining: maxCount,
	}

	for cursor.Remaining > 0 {
		limit := min(MaxFetchLimit, cursor.Remaining)
		var beforeID string
		if cursor.Before != 0 {
			beforeID = cursor.Before.String()
		}
		messages, err := d.API.ChannelMessages(channelID, limit, beforeID, "", "")
		if err != nil {
			return cursor.TotalDeleted, fmt.Errorf("%w: fetching messages before %s in channel %s: %v", model.ErrExternalAPI, cursor.Before, channelID, err)
		}
		cursor.Pages++
		if len(messages) == 0 {
			break
		}

		matched := filterByAuthor(messages, authorID)
		if len(matched) == 0 {
			utils.Debugf("Purge in channel %s: page %d has no messages from %s, stopping", channelID, cursor.Pages, authorID)
			break
		}

		if err := d.API.ChannelMessagesBulkDelete(channelID, matched); err != nil {
			return cursor.TotalDeleted, fmt.Errorf("%w: deleting %d messages in channel %s: %v", model.ErrExternalAPI, len(matched), channelID, err)
		}
		cursor.TotalDeleted += len(matched)
		cursor.Remaining -= len(matched)

		oldest, err := oldestID(messages)
		if err != nil {
			return cursor.TotalDeleted, fmt.Errorf("%w: %v", model.ErrExternalAPI, err)
		}
		if cursor.Before != 0 && oldest >= cursor.Before {
			break
		}
		cursor.Before = oldest
	}

	utils.Debugf("Purge in channel %s finished: %d deleted over %d pages", channelID, cursor.TotalDeleted, cursor.Pages)
	return cursor.TotalDeleted, nil
}

func filterByAuthor(messages []*discordgo.Message, authorID string) []string {
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.Author != nil && msg.Author.ID == authorID {
			ids = append(ids, msg.ID)
		}
	}
	return ids
}

// oldestID returns the smallest message id of a page. Pages arrive newest first but the
// order is not relied on.
func oldestID(messages []*discordgo.Message) (snowflake.ID, error) {
	var oldest snowflake.ID
	for i, msg := range messages {
		id, err := snowflake.Parse(msg.ID)
		if err != nil {
			return 0, fmt.Errorf("invalid message id %q: %w", msg.ID, err)
		}
		if i == 0 || id < oldest {
			oldest = id
		}
	}
	return oldest, nil
}
