// Package pyenv interacts with the Python environment that packages are
// scored in: it discovers the site-packages directory and, in install
// mode, drives pip to install a package before scoring and remove it
// afterwards.
//
// Install and uninstall honor a skip list of packages the scoring
// environment itself depends on (pip, the checker, and friends); touching
// those would break subsequent packages in the batch. Stub-only
// distributions (a "-stubs" suffix) are never uninstalled either, since
// they may have been present before the run.
package pyenv
