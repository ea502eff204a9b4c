package session

// palette matches the web client's presence badge colors.
var palette = []string{
	"#e6194b", "#3cb44b", "#ffe119", "#0082c8", "#f58231",
	"#911eb4", "#46f0f0", "#f032e6", "#d2f53c", "#fabebe",
	"#008080", "#e6beff", "#aa6e28", "#fffac8", "#800000",
	"#aaffc3", "#808080", "#ffd8b1", "#000080", "#808000",
}

// ColorForUser hashes a user id into the fixed palette so the same user
// keeps the same color across reconnects.
func ColorForUser(userID string) string {
	var h uint32
	for i := 0; i < len(userID); i++ {
		h = h*31 + uint32(userID[i])
	}
	return palette[h%uint32(len(palette))]
}
