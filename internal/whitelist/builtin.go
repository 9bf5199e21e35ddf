package whitelist

// --- Built-in platform names ---
// Shipped, read-only tier. Renaming anything here breaks the runtime
// contract with the platform frameworks or the language itself.

// Names protected regardless of symbol kind.
var builtinAnyKind = map[string]bool{
	// language / runtime
	"id": true, "self": true, "super": true, "instancetype": true,
	"BOOL": true, "YES": true, "NO": true, "nil": true, "Nil": true,
	"SEL": true, "IMP": true, "Class": true, "Protocol": true,
	"IBOutlet": true, "IBAction": true, "IBInspectable": true,
	// Swift standard library types
	"String": true, "Int": true, "Int8": true, "Int16": true, "Int32": true,
	"Int64": true, "UInt": true, "Double": true, "Float": true, "Bool": true,
	"Array": true, "Dictionary": true, "Set": true, "Optional": true,
	"Result": true, "Error": true, "Void": true, "Any": true, "AnyObject": true,
	"Character": true, "Substring": true, "Data": true, "Date": true,
	"URL": true, "UUID": true, "Codable": true, "Decodable": true,
	"Encodable": true, "Equatable": true, "Hashable": true, "Comparable": true,
	"Identifiable": true, "CustomStringConvertible": true, "Sequence": true,
	"Collection": true, "IteratorProtocol": true, "RawRepresentable": true,
	"CaseIterable": true, "OptionSet": true,
}

// Framework type names that carry no vendor prefix (Foundation's Swift
// overlay renames, mostly).
var builtinTypes = map[string]bool{
	"Notification": true, "NotificationCenter": true, "IndexPath": true,
	"Timer": true, "Bundle": true, "FileManager": true, "UserDefaults": true,
	"URLSession": true, "URLSessionTask": true, "URLRequest": true,
	"URLResponse": true, "HTTPURLResponse": true, "JSONDecoder": true,
	"JSONEncoder": true, "JSONSerialization": true, "PropertyListDecoder": true,
	"OperationQueue": true, "Operation": true, "BlockOperation": true,
	"Thread": true, "RunLoop": true, "DispatchQueue": true,
	"DispatchGroup": true, "DispatchSemaphore": true, "DispatchWorkItem": true,
	"Calendar": true, "Locale": true, "TimeZone": true, "DateFormatter": true,
	"DateComponents": true, "NumberFormatter": true, "Measurement": true,
	"Progress": true, "Pipe": true, "Process": true, "Scanner": true,
	"InputStream": true, "OutputStream": true, "CharacterSet": true,
	"AttributedString": true, "IndexSet": true, "Selector": true,
}

// Vendor prefixes for platform frameworks. A type whose name starts with
// one of these is platform API (or follows the platform's namespace) and
// is never renamed.
var builtinTypePrefixes = []string{
	"NS", "UI", "CA", "CG", "CF", "CL", "CM", "AV", "AU", "SK", "MK",
	"WK", "GK", "HK", "EK", "PK", "MTL", "SCN", "ARK", "XC", "OS_",
	"dispatch_", "os_",
}

// Constant prefixes used by the platform frameworks.
var builtinConstantPrefixes = []string{
	"NS", "UI", "kCF", "kCG", "kCA", "kCL", "kAV", "kSec", "CF", "CG",
	"errSec", "DISPATCH_", "OBJC_",
}

// Selectors the runtime or the frameworks invoke by name. Renaming any
// of these silently breaks delegate wiring, lifecycle callbacks, KVC,
// NSCoding and friends.
var builtinSelectors = map[string]bool{
	// NSObject lifecycle and introspection
	"init": true, "dealloc": true, "new": true, "alloc": true, "copy": true,
	"mutableCopy": true, "description": true, "debugDescription": true,
	"hash": true, "isEqual:": true, "class": true, "superclass": true,
	"respondsToSelector:": true, "conformsToProtocol:": true,
	"performSelector:": true, "performSelector:withObject:": true,
	"isKindOfClass:": true, "isMemberOfClass:": true,
	"copyWithZone:": true, "mutableCopyWithZone:": true,
	"load": true, "initialize": true,
	// NSCoding / KVC / KVO
	"encodeWithCoder:": true, "initWithCoder:": true,
	"valueForKey:": true, "setValue:forKey:": true,
	"valueForKeyPath:": true, "setValue:forKeyPath:": true,
	"observeValueForKeyPath:ofObject:change:context:": true,
	// UIKit / AppKit lifecycle
	"viewDidLoad": true, "viewWillAppear:": true, "viewDidAppear:": true,
	"viewWillDisappear:": true, "viewDidDisappear:": true,
	"viewWillLayoutSubviews": true, "viewDidLayoutSubviews": true,
	"loadView": true, "didReceiveMemoryWarning": true,
	"layoutSubviews": true, "drawRect:": true, "awakeFromNib": true,
	"prepareForSegue:sender:": true,
	"application:didFinishLaunchingWithOptions:": true,
	"applicationDidBecomeActive:": true, "applicationWillResignActive:": true,
	"applicationDidEnterBackground:": true, "applicationWillEnterForeground:": true,
	"applicationWillTerminate:": true,
	// common data-source / delegate shapes
	"numberOfSectionsInTableView:": true,
	"tableView:numberOfRowsInSection:": true,
	"tableView:cellForRowAtIndexPath:": true,
	"tableView:didSelectRowAtIndexPath:": true,
	"collectionView:numberOfItemsInSection:": true,
	"collectionView:cellForItemAtIndexPath:": true,
	"scrollViewDidScroll:": true,
	"textFieldShouldReturn:": true,
	// Swift lifecycle spellings
	"viewWillAppear": true, "viewDidAppear": true,
	"viewWillDisappear": true, "viewDidDisappear": true,
	"deinit": true,
}

// Property names with framework-defined meaning on common base classes.
var builtinProperties = map[string]bool{
	"delegate": true, "dataSource": true, "view": true, "window": true,
	"frame": true, "bounds": true, "center": true, "tag": true,
	"hidden": true, "alpha": true, "backgroundColor": true,
	"navigationController": true, "tabBarController": true,
	"navigationItem": true, "tabBarItem": true, "title": true,
	"text": true, "font": true, "textColor": true, "image": true,
	"enabled": true, "selected": true, "highlighted": true,
	"translatesAutoresizingMaskIntoConstraints": true,
	"rootViewController": true, "presentingViewController": true,
	"presentedViewController": true, "parentViewController": true,
	"layer": true, "superview": true, "subviews": true,
	"isEnabled": true, "isHidden": true, "isSelected": true,
}
