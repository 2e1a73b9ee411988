package styles

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconInfo    = "" // 
	IconWarning = "" // 
	IconError   = "" // 
	IconLock    = "" // 
	IconUser    = "" // 
	IconShield  = "\U000F0499"
	IconTimer   = "\U000F13AB"
)
