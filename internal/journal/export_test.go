package journal

var NeedsSync = needsSync
