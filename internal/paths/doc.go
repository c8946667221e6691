// Provides platform-appropriate paths for install destinations and run
// bookkeeping.
//
// Install paths follow XDG conventions on Linux and platform-native
// conventions on macOS and Windows.
package paths
