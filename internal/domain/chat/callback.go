package chat

import (
	"strconv"
	"strings"
)

// Callback data understood by the bot. Prefixed forms carry decimal ids and pages.
const (
	CallbackSendBook          = "send_book_"
	CallbackSendParts         = "send_parts_"
	CallbackDeleteBook        = "delete_book_"
	CallbackAdminDeletePage   = "admin_delete_page_"
	CallbackSearchPage        = "search_page_"
	CallbackChannelInfo       = "channel_info_"
	CallbackDeleteChannel     = "delete_channel_"
	CallbackCloseSearch       = "close_search"
	CallbackCheckSubscription = "check_subscription"
	CallbackFinishMultiPart   = "finish_multi_part_book"
	CallbackBroadcastPause    = "broadcast_pause"
	CallbackBroadcastResume   = "broadcast_resume"
	CallbackBroadcastStop     = "broadcast_stop"
	CallbackAddSingle         = "add_single_book"
	CallbackAddMultiPart      = "add_multiple_books"
	CallbackAutoUpload        = "auto_upload"
	CallbackStopAutoUpload    = "stop_auto_upload"
	CallbackAdminBack         = "admin_back"
	CallbackAdminStats        = "admin_stats"
	CallbackAdminBooks        = "admin_books"
	CallbackAdminAddBook      = "admin_add_book"
	CallbackAdminDeleteBook   = "admin_delete_book"
	CallbackAdminChannels     = "admin_channels"
	CallbackAdminAddChannel   = "admin_add_channel"
	CallbackAdminBroadcast    = "admin_broadcast"
)

func SendBook(id int64) string {
	return CallbackSendBook + strconv.FormatInt(id, 10)
}

func SendParts(kind string, id int64) string {
	return CallbackSendParts + kind + "_" + strconv.FormatInt(id, 10)
}

func DeleteBook(id int64, page int) string {
	return CallbackDeleteBook + strconv.FormatInt(id, 10) + "_" + strconv.Itoa(page)
}

func AdminDeletePage(page int) string {
	return CallbackAdminDeletePage + strconv.Itoa(page)
}

func SearchPage(page int) string {
	return CallbackSearchPage + strconv.Itoa(page)
}

func ChannelInfo(id int64) string {
	return CallbackChannelInfo + strconv.FormatInt(id, 10)
}

func DeleteChannel(id int64) string {
	return CallbackDeleteChannel + strconv.FormatInt(id, 10)
}

// ParseID reads the decimal id that follows prefix
func ParseID(data, prefix string) (int64, bool) {
	rest, ok := strings.CutPrefix(data, prefix)
	if !ok || rest == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ParsePage reads a non-negative page number that follows prefix
func ParsePage(data, prefix string) (int, bool) {
	id, ok := ParseID(data, prefix)
	if !ok || id < 0 {
		return 0, false
	}
	return int(id), true
}

// ParseSendParts splits send_parts_<kind>_<id>
func ParseSendParts(data string) (kind string, id int64, ok bool) {
	rest, found := strings.CutPrefix(data, CallbackSendParts)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 {
		return "", 0, false
	}
	id, ok = ParseID(rest[i+1:], "")
	if !ok {
		return "", 0, false
	}
	return rest[:i], id, true
}

// ParseDeleteBook splits delete_book_<id>_<page>
func ParseDeleteBook(data string) (id int64, page int, ok bool) {
	rest, found := strings.CutPrefix(data, CallbackDeleteBook)
	if !found {
		return 0, 0, false
	}
	idPart, pagePart, found := strings.Cut(rest, "_")
	if !found {
		return 0, 0, false
	}
	if id, ok = ParseID(idPart, ""); !ok {
		return 0, 0, false
	}
	if page, ok = ParsePage(pagePart, ""); !ok {
		return 0, 0, false
	}
	return id, page, true
}

// Truncate cuts s to at most limit runes
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
